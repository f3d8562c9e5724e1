package sqlinline

const QInsertAMASession = `--sql 2d95583f-50e6-42db-9f60-5958018f24f6
insert into ama_sessions (
    id, session_id, title, description, mentor, date, "time", duration,
    registrants, max_registrants, is_woman_tech, is_paid, price, token_price,
    questions, topics, time_slots, created_at, updated_at
)
values (
    gen_random_uuid(), $1::text, $2::text, $3::text, $4::jsonb, $5::text, $6::text, $7::text,
    0, $8::integer, $9::boolean, $10::boolean, $11::numeric, $12::integer,
    $13::jsonb, $14::jsonb, $15::jsonb, now(), now()
)
returning session_id;
`

const QListAMASessions = `--sql f682452d-32e5-4bd3-96a6-59de238ca5ed
select session_id, title, description, mentor, date, "time", duration,
       registrants, max_registrants, is_woman_tech, is_paid, price, token_price,
       questions, topics, time_slots
from ama_sessions
where ($1::boolean is null or is_woman_tech = $1::boolean)
order by created_at desc;
`

const QSelectAMASessionBySessionID = `--sql 7c9f7331-d763-46ba-b035-7d81b5e12577
select session_id, title, description, mentor, date, "time", duration,
       registrants, max_registrants, is_woman_tech, is_paid, price, token_price,
       questions, topics, time_slots
from ama_sessions
where session_id = $1::text
limit 1;
`

const QUpdateAMASession = `--sql ba2b1073-314e-4ac8-a683-f9580c9813c8
update ama_sessions
set title = coalesce($2::text, title),
    description = coalesce($3::text, description),
    date = coalesce($4::text, date),
    "time" = coalesce($5::text, "time"),
    duration = coalesce($6::text, duration),
    max_registrants = coalesce($7::integer, max_registrants),
    is_woman_tech = coalesce($8::boolean, is_woman_tech),
    updated_at = now()
where session_id = $1::text
returning session_id;
`

const QDeleteAMASession = `--sql 63c0e067-6e25-4979-9f8f-1b8089ab3f81
delete from ama_sessions
where session_id = $1::text;
`
