package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"travelshot/internal/domain"
	"travelshot/internal/infra"
	"travelshot/internal/sqlinline"
)

// PhotoJobRepositoryPG implements domain.PhotoJobRepository on PostgreSQL.
// Every update is a single guarded statement, so concurrent handlers of the
// same job can never regress its state.
type PhotoJobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPhotoJobRepository creates a repository over the given executor,
// normally an *infra.SQLRunner.
func NewPhotoJobRepository(sql infra.SQLExecutor) *PhotoJobRepositoryPG {
	return &PhotoJobRepositoryPG{sql: sql}
}

// Create inserts a pending job.
func (r *PhotoJobRepositoryPG) Create(ctx context.Context, job *domain.PhotoJob) error {
	if job == nil {
		return fmt.Errorf("job is required")
	}
	if err := job.Key().Validate(); err != nil {
		return err
	}
	status := job.Status
	if status == "" {
		status = domain.JobStatusPending
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertPhotoJob,
		job.OwnerID,
		job.JobID,
		string(status),
		job.ReferencePath,
		job.ReferenceURL,
		job.Preferences.SceneType,
		job.Preferences.ShotType,
		job.Preferences.TimeOfDay,
		job.Preferences.Place,
	)
	if err := row.Scan(&job.CreatedAt, &job.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return fmt.Errorf("%w: job %s", domain.ErrConflict, job.Key())
		}
		return err
	}
	job.Status = status
	if job.GeneratedRefs == nil {
		job.GeneratedRefs = []string{}
	}
	return nil
}

// Get fetches one job.
func (r *PhotoJobRepositoryPG) Get(ctx context.Context, key domain.JobKey) (*domain.PhotoJob, error) {
	job, err := scanPhotoJob(r.sql.QueryRow(ctx, sqlinline.QSelectPhotoJob, key.OwnerID, key.JobID))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// Update applies the patch atomically and returns the updated record. When a
// guard rejects it the current record is re-read to report why.
func (r *PhotoJobRepositoryPG) Update(ctx context.Context, key domain.JobKey, patch domain.JobPatch) (*domain.PhotoJob, error) {
	var status, expect *string
	if patch.Status != "" {
		s := string(patch.Status)
		status = &s
	}
	if patch.ExpectStatus != "" {
		s := string(patch.ExpectStatus)
		expect = &s
	}
	var prefs domain.Preferences
	if patch.Preferences != nil {
		prefs = *patch.Preferences
	}

	job, err := scanPhotoJob(r.sql.QueryRow(ctx, sqlinline.QPatchPhotoJob,
		key.OwnerID,
		key.JobID,
		status,
		patch.SubjectDescription,
		patch.FullPrompt,
		patch.VariantsTotal,
		patch.ResetVariants,
		patch.AppendRef,
		patch.ErrorDetail,
		patch.Preferences != nil,
		prefs.SceneType,
		prefs.ShotType,
		prefs.TimeOfDay,
		prefs.Place,
		expect,
	))
	if err == nil {
		return job, nil
	}
	if !infra.IsNoRows(err) {
		return nil, err
	}
	return nil, r.rejection(ctx, key, patch)
}

// rejection explains a patch that matched no row.
func (r *PhotoJobRepositoryPG) rejection(ctx context.Context, key domain.JobKey, patch domain.JobPatch) error {
	current, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := patch.Apply(current, time.Now()); err != nil {
		return err
	}
	return fmt.Errorf("%w: job %s changed concurrently", domain.ErrStaleUpdate, key)
}

// ListPending returns up to limit pending jobs, oldest first.
func (r *PhotoJobRepositoryPG) ListPending(ctx context.Context, limit int) ([]domain.JobKey, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListPendingPhotoJobs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.JobKey
	for rows.Next() {
		var k domain.JobKey
		if err := rows.Scan(&k.OwnerID, &k.JobID); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func scanPhotoJob(row pgx.Row) (*domain.PhotoJob, error) {
	var job domain.PhotoJob
	var status string
	if err := row.Scan(
		&job.OwnerID,
		&job.JobID,
		&status,
		&job.ReferencePath,
		&job.ReferenceURL,
		&job.Preferences.SceneType,
		&job.Preferences.ShotType,
		&job.Preferences.TimeOfDay,
		&job.Preferences.Place,
		&job.SubjectDescription,
		&job.FullPrompt,
		&job.VariantsTotal,
		&job.VariantsCompleted,
		&job.GeneratedRefs,
		&job.ErrorDetail,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	); err != nil {
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	if job.GeneratedRefs == nil {
		job.GeneratedRefs = []string{}
	}
	if !job.Status.Valid() {
		return nil, errors.New("photo job has unknown status " + status)
	}
	return &job, nil
}

var _ domain.PhotoJobRepository = (*PhotoJobRepositoryPG)(nil)
