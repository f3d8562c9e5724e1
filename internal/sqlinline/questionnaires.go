package sqlinline

const QInsertQuestionnaire = `--sql 837e3373-6aa8-4f9e-bf59-3d993e51b462
insert into questionnaires (id, questionnaire_id, title, content, category_id, session_id, authors, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::jsonb, now(), now())
returning questionnaire_id;
`

const QListQuestionnairesByTime = `--sql 2a69aadb-4501-4029-8a9e-61a76f336d3b
select questionnaire_id, title, content, category_id, session_id, authors, upvotes, answers, created_at
from questionnaires
where ($1::text = '' or category_id = $1::text)
order by created_at desc
limit $2::integer offset $3::integer;
`

const QListQuestionnairesByUpvotes = `--sql 4130f554-b071-42ba-9082-417df409b909
select questionnaire_id, title, content, category_id, session_id, authors, upvotes, answers, created_at
from questionnaires
where ($1::text = '' or category_id = $1::text)
order by upvotes desc, created_at desc
limit $2::integer offset $3::integer;
`

const QSelectQuestionnaire = `--sql 817d5033-b6bd-471a-b56b-203fc8091674
select questionnaire_id, title, content, category_id, session_id, authors, upvotes, answers, created_at
from questionnaires
where questionnaire_id = $1::text
limit 1;
`

const QUpvoteQuestionnaire = `--sql 9e92e069-9efc-49ef-a67a-0c863d9bdec6
update questionnaires
set upvotes = upvotes + 1,
    updated_at = now()
where questionnaire_id = $1::text
returning upvotes;
`

// QInsertAnswer bumps the parent question's answer counter in the same
// statement so the two never drift apart.
const QInsertAnswer = `--sql 4a6a20b0-f3d7-46fb-b3e4-ee8e6e4d0c96
with bump as (
    update questionnaires
    set answers = answers + 1,
        updated_at = now()
    where questionnaire_id = $2::text
    returning questionnaire_id
)
insert into answers (id, answer_id, question_id, content, author, created_at, updated_at)
select gen_random_uuid(), $1::text, bump.questionnaire_id, $3::text, $4::jsonb, now(), now()
from bump
returning answer_id;
`

const QListAnswersByQuestion = `--sql 922a9c46-707a-4a70-88a6-4a54082c13c0
select answer_id, question_id, content, author, upvotes, created_at
from answers
where question_id = $1::text
order by created_at asc;
`
