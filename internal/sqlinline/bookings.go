package sqlinline

const QInsertBooking = `--sql 88ff6f92-32e4-4f01-81a1-6519d39f57f8
insert into bookings (id, booking_id, session_id, email, date, "time", timezone, meeting_id, meeting_link, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text, now(), now())
returning booking_id;
`

const QListBookings = `--sql 9e51346a-3649-42c3-9b3c-b9171be8d721
select booking_id, session_id, email, date, "time", timezone, meeting_id, meeting_link, created_at
from bookings
where ($1::text = '' or session_id = $1::text)
order by created_at desc;
`

const QSelectBookingByID = `--sql 912f6bb4-9325-4728-bdac-144ac7ac6063
select booking_id, session_id, email, date, "time", timezone, meeting_id, meeting_link, created_at
from bookings
where booking_id = $1::text
limit 1;
`

const QListBookingsBySessionEmail = `--sql 7ff4f843-9a26-4f73-be3b-c61800bf65a8
select booking_id, session_id, email, date, "time", timezone, meeting_id, meeting_link, created_at
from bookings
where session_id = $1::text and email = $2::text
order by created_at desc;
`
