// Package sqlinline holds every SQL statement executed by the service. Each
// constant starts with a --sql marker line; infra.SQLRunner strips it and
// tags logs with the marker id.
package sqlinline

const QInsertUser = `--sql 6ad66df5-a6c7-4a36-9138-26c4ca1d03d2
insert into users (id, user_id, username, email, password_hash, role, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, '{}'::jsonb, now(), now())
returning user_id;
`

const QSelectUserByEmail = `--sql f247a658-5f47-4c95-a431-5efcc9722680
select user_id, username, email, password_hash, role, disabled
from users
where email = $1::text
limit 1;
`

const QSelectUserByUserID = `--sql f1627902-8d43-470f-bd1a-d67312ac4336
select user_id, username, email, role, disabled, created_at, updated_at
from users
where user_id = $1::text
limit 1;
`

const QUpdateUser = `--sql 4d3d528f-e7a8-4dc7-a0da-1dc01ad83de1
update users
set username = coalesce($2::text, username),
    role = coalesce($3::text, role),
    disabled = coalesce($4::boolean, disabled),
    updated_at = now()
where user_id = $1::text
returning user_id, username, email, role, disabled;
`

const QDeleteUser = `--sql 452a073a-87e7-400d-b7a9-670f92191cf8
delete from users
where user_id = $1::text;
`

const QSelectUsernameByUserID = `--sql fd33b5bc-bc89-4138-bd26-955fb715cb3d
select username
from users
where user_id = $1::text
limit 1;
`
