package domain

import (
	"fmt"
	"strings"
	"time"
)

// JobStatus enumerates photo job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusDescribing JobStatus = "describing"
	JobStatusGenerating JobStatus = "generating"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further transition may leave the status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusDescribing, JobStatusGenerating, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// CanTransition enforces the forward-only state machine:
// pending -> describing -> generating -> {completed | failed}, and any
// non-terminal state may fail.
func CanTransition(from, to JobStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case JobStatusPending:
		return to == JobStatusDescribing || to == JobStatusFailed
	case JobStatusDescribing:
		return to == JobStatusGenerating || to == JobStatusFailed
	case JobStatusGenerating:
		return to == JobStatusCompleted || to == JobStatusFailed
	default:
		return false
	}
}

// JobKey identifies a job record.
type JobKey struct {
	OwnerID string `json:"owner_id"`
	JobID   string `json:"job_id"`
}

func (k JobKey) String() string {
	return k.OwnerID + "/" + k.JobID
}

// Validate ensures both halves of the key are present.
func (k JobKey) Validate() error {
	if strings.TrimSpace(k.OwnerID) == "" {
		return fmt.Errorf("owner_id is required")
	}
	if strings.TrimSpace(k.JobID) == "" {
		return fmt.Errorf("job_id is required")
	}
	return nil
}

// Preferences are the user's choices for the generated photos. Every field is
// optional; unrecognized values fall back to the descriptor defaults.
type Preferences struct {
	SceneType string `json:"scene_type,omitempty"`
	ShotType  string `json:"shot_type,omitempty"`
	TimeOfDay string `json:"time_of_day,omitempty"`
	// Place is an optional free-text location that replaces the scene's stock
	// description, e.g. "Trevi Fountain, Rome".
	Place string `json:"place,omitempty"`
}

// PhotoJob is the record observed by clients while a job advances.
type PhotoJob struct {
	OwnerID            string      `json:"owner_id"`
	JobID              string      `json:"job_id"`
	Status             JobStatus   `json:"status"`
	ReferencePath      string      `json:"reference_path,omitempty"`
	ReferenceURL       string      `json:"reference_url,omitempty"`
	Preferences        Preferences `json:"preferences"`
	SubjectDescription string      `json:"subject_description,omitempty"`
	FullPrompt         string      `json:"full_prompt,omitempty"`
	VariantsTotal      int         `json:"variants_total"`
	VariantsCompleted  int         `json:"variants_completed"`
	GeneratedRefs      []string    `json:"generated_refs"`
	ErrorDetail        string      `json:"error_detail,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
}

// Key returns the record identifier.
func (j *PhotoJob) Key() JobKey {
	return JobKey{OwnerID: j.OwnerID, JobID: j.JobID}
}

// Validate checks the progress counters against the reference list.
func (j *PhotoJob) Validate() error {
	if j.VariantsCompleted < 0 || j.VariantsTotal < 0 {
		return fmt.Errorf("variant counters must not be negative")
	}
	if j.VariantsCompleted > j.VariantsTotal {
		return fmt.Errorf("variants_completed %d exceeds variants_total %d", j.VariantsCompleted, j.VariantsTotal)
	}
	if len(j.GeneratedRefs) != j.VariantsCompleted {
		return fmt.Errorf("generated_refs has %d entries, variants_completed is %d", len(j.GeneratedRefs), j.VariantsCompleted)
	}
	return nil
}

// Clone returns a deep copy so callers never share the refs slice.
func (j *PhotoJob) Clone() *PhotoJob {
	if j == nil {
		return nil
	}
	out := *j
	out.GeneratedRefs = make([]string, len(j.GeneratedRefs))
	copy(out.GeneratedRefs, j.GeneratedRefs)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// JobPatch is a partial-field merge applied atomically to one record. Nil
// fields are left untouched.
type JobPatch struct {
	// ExpectStatus guards the update: it only applies while the record is in
	// this status. Empty means no guard beyond the transition rules.
	ExpectStatus JobStatus
	Status       JobStatus

	// Write-once: ignored when the record already carries a value.
	SubjectDescription *string
	FullPrompt         *string

	VariantsTotal *int
	// ResetVariants clears variants_completed and generated_refs.
	ResetVariants bool
	// AppendRef appends one reference and increments variants_completed.
	AppendRef *string

	ErrorDetail *string
	Preferences *Preferences
}

// Apply merges the patch into job in place, enforcing the record invariants.
// Both record store implementations route through the same rules; the
// Postgres store expresses them in SQL and the memory store calls this.
func (p JobPatch) Apply(job *PhotoJob, now time.Time) error {
	if p.ExpectStatus != "" && job.Status != p.ExpectStatus {
		return fmt.Errorf("%w: status is %s, expected %s", ErrStaleUpdate, job.Status, p.ExpectStatus)
	}
	if job.Status.IsTerminal() {
		return fmt.Errorf("%w: job is %s", ErrStaleUpdate, job.Status)
	}
	if p.Status != "" && p.Status != job.Status {
		if !CanTransition(job.Status, p.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, p.Status)
		}
		job.Status = p.Status
		if p.Status.IsTerminal() {
			t := now
			job.CompletedAt = &t
		}
	}
	if p.SubjectDescription != nil && job.SubjectDescription == "" {
		job.SubjectDescription = *p.SubjectDescription
	}
	if p.FullPrompt != nil && job.FullPrompt == "" {
		job.FullPrompt = *p.FullPrompt
	}
	if p.VariantsTotal != nil {
		job.VariantsTotal = *p.VariantsTotal
	}
	if p.ResetVariants {
		job.VariantsCompleted = 0
		job.GeneratedRefs = []string{}
	}
	if p.AppendRef != nil {
		if job.VariantsCompleted >= job.VariantsTotal {
			return fmt.Errorf("%w: all %d variants already recorded", ErrStaleUpdate, job.VariantsTotal)
		}
		job.GeneratedRefs = append(job.GeneratedRefs, *p.AppendRef)
		job.VariantsCompleted++
	}
	if p.ErrorDetail != nil {
		job.ErrorDetail = *p.ErrorDetail
	}
	if p.Preferences != nil {
		job.Preferences = *p.Preferences
	}
	job.UpdatedAt = now
	return job.Validate()
}

// StringPtr is a small helper for building patches.
func StringPtr(s string) *string { return &s }

// IntPtr is a small helper for building patches.
func IntPtr(i int) *int { return &i }
