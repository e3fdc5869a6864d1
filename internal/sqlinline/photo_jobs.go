package sqlinline

// photoJobColumns is the projection shared by every photo_jobs read.
const photoJobColumns = `owner_id, job_id, status,
    coalesce(reference_path, ''), coalesce(reference_url, ''),
    coalesce(scene_type, ''), coalesce(shot_type, ''), coalesce(time_of_day, ''), coalesce(place, ''),
    coalesce(subject_description, ''), coalesce(full_prompt, ''),
    variants_total, variants_completed, generated_refs,
    coalesce(error_detail, ''), created_at, updated_at, completed_at`

// PhotoJobsPendingChannel is the NOTIFY channel fired for new pending jobs.
const PhotoJobsPendingChannel = "photo_jobs_pending"

const QCreatePhotoJobsSchema = `--sql 96553cd1-1c3b-4193-806b-9cfe06d0e845
create table if not exists photo_jobs (
    owner_id text not null,
    job_id text not null,
    status text not null default 'pending'
        check (status in ('pending', 'describing', 'generating', 'completed', 'failed')),
    reference_path text,
    reference_url text,
    scene_type text,
    shot_type text,
    time_of_day text,
    place text,
    subject_description text,
    full_prompt text,
    variants_total int not null default 0,
    variants_completed int not null default 0,
    generated_refs text[] not null default '{}',
    error_detail text,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now(),
    completed_at timestamptz,
    primary key (owner_id, job_id),
    constraint photo_jobs_progress check (
        variants_completed between 0 and variants_total
        and cardinality(generated_refs) = variants_completed
    )
);

create index if not exists photo_jobs_pending_idx on photo_jobs (created_at) where status = 'pending';

create table if not exists integration_tokens (
    id uuid primary key,
    provider text not null unique,
    token text not null,
    properties jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);

create or replace function notify_photo_job_pending() returns trigger as $$
begin
    if new.status = 'pending' then
        perform pg_notify('photo_jobs_pending', json_build_object('owner_id', new.owner_id, 'job_id', new.job_id)::text);
    end if;
    return new;
end;
$$ language plpgsql;

drop trigger if exists photo_jobs_pending_notify on photo_jobs;
create trigger photo_jobs_pending_notify
    after insert on photo_jobs
    for each row execute function notify_photo_job_pending();
`

const QInsertPhotoJob = `--sql ef9253b5-53a1-4bd7-bde3-704041554d6b
insert into photo_jobs (
    owner_id, job_id, status, reference_path, reference_url,
    scene_type, shot_type, time_of_day, place
)
values (
    $1::text, $2::text, $3::text, nullif($4::text, ''), nullif($5::text, ''),
    nullif($6::text, ''), nullif($7::text, ''), nullif($8::text, ''), nullif($9::text, '')
)
on conflict (owner_id, job_id) do nothing
returning created_at, updated_at;
`

const QSelectPhotoJob = `--sql 6094ef94-3610-4716-9a7a-c5e4a396a479
select ` + photoJobColumns + `
from photo_jobs
where owner_id = $1::text and job_id = $2::text;
`

// QPatchPhotoJob applies a partial merge in one statement. Params:
// $1 owner, $2 job, $3 next status, $4 subject description, $5 full prompt,
// $6 variants total, $7 reset variants, $8 ref to append, $9 error detail,
// $10 set preferences, $11-$14 scene/shot/time/place, $15 expected status.
// No row is returned when a guard rejects the patch.
const QPatchPhotoJob = `--sql 63d986b5-bfd6-421e-940e-71c71a31c1e7
update photo_jobs set
    status = coalesce($3::text, status),
    subject_description = coalesce(nullif(subject_description, ''), $4::text),
    full_prompt = coalesce(nullif(full_prompt, ''), $5::text),
    variants_total = coalesce($6::int, variants_total),
    variants_completed = (case when $7::bool then 0 else variants_completed end)
        + (case when $8::text is not null then 1 else 0 end),
    generated_refs = (case when $7::bool then '{}'::text[] else generated_refs end)
        || (case when $8::text is not null then array[$8::text] else '{}'::text[] end),
    error_detail = coalesce($9::text, error_detail),
    scene_type = case when $10::bool then nullif($11::text, '') else scene_type end,
    shot_type = case when $10::bool then nullif($12::text, '') else shot_type end,
    time_of_day = case when $10::bool then nullif($13::text, '') else time_of_day end,
    place = case when $10::bool then nullif($14::text, '') else place end,
    completed_at = case when $3::text in ('completed', 'failed') and $3::text <> status then now() else completed_at end,
    updated_at = now()
where owner_id = $1::text and job_id = $2::text
    and status not in ('completed', 'failed')
    and ($15::text is null or status = $15::text)
    and (
        $3::text is null
        or $3::text = status
        or (status, $3::text) in (
            ('pending', 'describing'), ('pending', 'failed'),
            ('describing', 'generating'), ('describing', 'failed'),
            ('generating', 'completed'), ('generating', 'failed')
        )
    )
    and (
        $8::text is null
        or (case when $7::bool then 0 else variants_completed end) < coalesce($6::int, variants_total)
    )
returning ` + photoJobColumns + `;
`

const QListPendingPhotoJobs = `--sql bb9e88e6-08d3-4869-80bb-6504f6b98bde
select owner_id, job_id
from photo_jobs
where status = 'pending'
order by created_at asc
limit $1::int;
`

// QNotifyPhotoJobPending re-sends the creation event for an existing job.
const QNotifyPhotoJobPending = `--sql fff694dc-0496-486f-82e4-28737c8028f5
select pg_notify('photo_jobs_pending', json_build_object('owner_id', $1::text, 'job_id', $2::text)::text);
`
