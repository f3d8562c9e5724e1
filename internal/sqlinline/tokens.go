package sqlinline

const QSelectTokenAccount = `--sql 9d981b3c-63d0-47ef-869b-27102cbcde8f
select user_id, plan_id, plan_type, subscription_status, purchased_date, expiry_date,
       purchased_tokens, used_tokens, remaining_tokens, usage, transactions, last_updated
from token_accounts
where user_id = $1::text
limit 1;
`

const QInsertTokenAccount = `--sql 69942599-ceaf-43e6-b5e9-7d9a5c4c14f1
insert into token_accounts (
    user_id, plan_id, plan_type, subscription_status, purchased_date, expiry_date,
    purchased_tokens, used_tokens, remaining_tokens, usage, transactions, created_at, last_updated
)
values ($1::text, $2::text, $3::text, $4::text, $5::timestamptz, $6::timestamptz,
        $7::integer, $8::integer, $9::integer, $10::jsonb, $11::jsonb, now(), now())
on conflict (user_id) do nothing
returning user_id;
`

// QUpdateTokenAccountCAS only applies when the balance still matches the one
// the caller computed from. A zero-row result means a concurrent writer won;
// the caller re-reads and retries.
const QUpdateTokenAccountCAS = `--sql f26a6303-6905-4200-965e-afc2ecc7a28b
update token_accounts
set plan_id = $2::text,
    plan_type = $3::text,
    subscription_status = $4::text,
    expiry_date = $5::timestamptz,
    purchased_tokens = $6::integer,
    used_tokens = $7::integer,
    remaining_tokens = $8::integer,
    usage = $9::jsonb,
    transactions = transactions || $10::jsonb,
    last_updated = now()
where user_id = $1::text
  and remaining_tokens = $11::integer
returning user_id;
`
