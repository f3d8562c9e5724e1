package sqlinline

const QListBookingsByEmail = `--sql 96450231-4073-4cc5-b8a3-322baf915ba4
select booking_id, session_id, email, date, "time", timezone, meeting_id, meeting_link, created_at
from bookings
where email = $1::text
order by created_at desc;
`

const QSelectSessionForDashboard = `--sql da341dad-643c-4544-b257-046ab408f916
select session_id, mentor_id, session_name, description, duration, session_type
from sessions
where session_id = $1::text
limit 1;
`
