package domain

import "context"

// PhotoJobRepository is the record store port. Updates are always partial
// merges; a failed ExpectStatus guard surfaces as ErrStaleUpdate.
type PhotoJobRepository interface {
	Create(ctx context.Context, job *PhotoJob) error
	Get(ctx context.Context, key JobKey) (*PhotoJob, error)
	Update(ctx context.Context, key JobKey, patch JobPatch) (*PhotoJob, error)
	ListPending(ctx context.Context, limit int) ([]JobKey, error)
}
