package sqlinline

const QSelectAMASessionForRegistration = `--sql 7944d390-3682-47da-a2c1-ec23a2f3a74c
select session_id, title, mentor, date, "time", duration, registrants, max_registrants
from ama_sessions
where session_id = $1::text
limit 1;
`

// QCreateRegistration claims a seat and writes the registration in one
// statement. The update only matches while seats remain, so a full session
// inserts nothing; a duplicate (email, session) trips the unique constraint
// and rolls the seat bump back with it.
const QCreateRegistration = `--sql 30dd1512-c39d-4dd1-b1a6-bba9d3af59ef
with claimed as (
    update ama_sessions
    set registrants = registrants + 1,
        updated_at = now()
    where session_id = $2::text
      and registrants < max_registrants
    returning session_id, title, mentor, date, "time", duration
)
insert into registrations (id, registration_id, session_id, email, name, company, role, meeting_id, meeting_link, session_snapshot, created_at, updated_at)
select gen_random_uuid(), $1::text, claimed.session_id, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text,
       jsonb_build_object(
           'title', claimed.title,
           'mentor', claimed.mentor,
           'date', claimed.date,
           'time', claimed."time",
           'duration', claimed.duration
       ),
       now(), now()
from claimed
returning registration_id, meeting_link, session_snapshot;
`

const QCheckRegistration = `--sql 379ff8f5-2273-4157-8f29-e55f3f0ba202
select exists (
    select 1 from registrations
    where email = $1::text and session_id = $2::text
);
`

const QListRegistrationsBySession = `--sql cf45d8f8-4cdb-4821-aae7-47139d8ed432
select registration_id, email, name, company, role, meeting_link, created_at
from registrations
where session_id = $1::text
order by created_at asc;
`
