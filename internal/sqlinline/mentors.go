package sqlinline

const QInsertMentorProfile = `--sql 8024224d-dcd0-40e4-a168-a56a727bb0cf
insert into mentor_profiles (id, user_id, name, headline, membership, profile, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::jsonb, now(), now())
returning user_id;
`

const QSelectMentorByUserID = `--sql dd2faa49-feac-4d21-a4f0-62823f05aa3f
select user_id, name, headline, membership, profile, created_at
from mentor_profiles
where user_id = $1::text
limit 1;
`

const QListMentors = `--sql 427a1945-bc89-475a-96af-f3b723702202
select user_id, name, headline, membership, profile
from mentor_profiles
order by created_at desc;
`
