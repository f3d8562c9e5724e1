package sqlinline

const QInsertSession = `--sql 5c25ac97-d1e8-46ee-99d9-8dbf94696ffe
insert into sessions (
    id, session_id, mentor_id, session_name, description, duration, session_type,
    number_of_sessions, occurrence, is_paid, price, allow_mentee_topics,
    show_on_profile, topics, time_slots, created_at, updated_at
)
values (
    gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::text,
    $7::text, $8::text, $9::boolean, $10::text, $11::boolean,
    $12::boolean, $13::jsonb, $14::jsonb, now(), now()
)
returning session_id;
`

const QSelectSessionBySessionID = `--sql 1eab5a17-6e84-486c-a73a-14cdf4b1c50f
select session_id, mentor_id, session_name, description, duration, session_type,
       number_of_sessions, occurrence, is_paid, price, allow_mentee_topics,
       show_on_profile, topics, time_slots, created_at
from sessions
where session_id = $1::text
limit 1;
`

const QListSessionsByMentor = `--sql e609932a-5a71-49c7-9e01-0b7ad362b741
select session_id, mentor_id, session_name, description, duration, session_type,
       number_of_sessions, occurrence, is_paid, price, allow_mentee_topics,
       show_on_profile, topics, time_slots, created_at
from sessions
where mentor_id = $1::text
order by created_at desc;
`
