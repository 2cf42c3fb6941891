package core

// jobs.go records every translation request so operators can see what was
// translated, how long it took and which requests failed.
//
// Two stores implement JobStore: PgJobStore writes to the translation_jobs
// table, MemoryJobStore keeps the most recent records in process for servers
// without a database.

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	db "github.com/JonMunkholm/doctranslate/internal/database"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrJobNotFound is returned when no job has the requested ID.
	ErrJobNotFound = errors.New("job not found")

	// ErrHistoryDisabled is returned by job queries when no store is configured.
	ErrHistoryDisabled = errors.New("job history disabled")
)

// JobStatus is the outcome of a translation request.
type JobStatus string

const (
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// DefaultJobPageSize is used when a list request does not set a limit.
const DefaultJobPageSize = 50

// MaxJobPageSize bounds a single list request.
const MaxJobPageSize = 500

// JobRecord is one recorded translation request.
type JobRecord struct {
	ID         string        `json:"id"`
	FileName   string        `json:"fileName"`
	Kind       string        `json:"kind"`
	Language   string        `json:"language"`
	Status     JobStatus     `json:"status"`
	Error      string        `json:"error,omitempty"`
	Stats      Stats         `json:"stats"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"durationMs"`
	IPAddress  string        `json:"ipAddress,omitempty"`
	UserAgent  string        `json:"userAgent,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// JobPage is one page of job records, newest first.
type JobPage struct {
	Jobs   []JobRecord `json:"jobs"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// JobStore persists job records.
type JobStore interface {
	Record(ctx context.Context, job JobRecord) error
	Get(ctx context.Context, id string) (*JobRecord, error)
	List(ctx context.Context, limit, offset int) (*JobPage, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// normalizePage clamps limit and offset to sane values.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultJobPageSize
	}
	if limit > MaxJobPageSize {
		limit = MaxJobPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ----------------------------------------------------------------------------
// PostgreSQL store
// ----------------------------------------------------------------------------

// PgJobStore stores job records in PostgreSQL.
type PgJobStore struct {
	q *db.Queries
}

// NewPgJobStore creates a store on top of a pool or transaction.
func NewPgJobStore(conn db.DBTX) *PgJobStore {
	return &PgJobStore{q: db.New(conn)}
}

func (s *PgJobStore) Record(ctx context.Context, job JobRecord) error {
	id := ToPgUUID(job.ID)
	if !id.Valid {
		return fmt.Errorf("record job: invalid id %q", job.ID)
	}

	_, err := s.q.InsertTranslationJob(ctx, db.InsertTranslationJobParams{
		ID:                  id,
		FileName:            job.FileName,
		Kind:                job.Kind,
		Language:            job.Language,
		Status:              string(job.Status),
		ErrorMessage:        ToPgText(job.Error),
		Entries:             ToInt32(job.Stats.Entries),
		PartsMatched:        ToInt32(job.Stats.PartsMatched),
		PartsProcessed:      ToInt32(job.Stats.PartsProcessed),
		PartsFailed:         ToInt32(job.Stats.PartsFailed),
		FragmentsTranslated: ToInt32(job.Stats.FragmentsTranslated),
		DurationMs:          job.Duration.Milliseconds(),
		IpAddress:           ToPgText(job.IPAddress),
		UserAgent:           ToPgText(job.UserAgent),
	})
	if err != nil {
		return fmt.Errorf("record job: %w", err)
	}
	return nil
}

func (s *PgJobStore) Get(ctx context.Context, id string) (*JobRecord, error) {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	row, err := s.q.GetTranslationJob(ctx, pgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	job := dbJobToRecord(row)
	return &job, nil
}

func (s *PgJobStore) List(ctx context.Context, limit, offset int) (*JobPage, error) {
	limit, offset = normalizePage(limit, offset)

	rows, err := s.q.ListTranslationJobs(ctx, db.ListTranslationJobsParams{
		Limit:  ToInt32(limit),
		Offset: ToInt32(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	total, err := s.q.CountTranslationJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	page := &JobPage{Jobs: make([]JobRecord, 0, len(rows)), Total: total, Limit: limit, Offset: offset}
	for _, row := range rows {
		page.Jobs = append(page.Jobs, dbJobToRecord(row))
	}
	return page, nil
}

func (s *PgJobStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	days := int(olderThan / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	n, err := s.q.DeleteTranslationJobsOlderThan(ctx, ToInt32(days))
	if err != nil {
		return 0, fmt.Errorf("prune jobs: %w", err)
	}
	return n, nil
}

func dbJobToRecord(row db.TranslationJob) JobRecord {
	return JobRecord{
		ID:       PgUUIDToString(row.ID),
		FileName: row.FileName,
		Kind:     row.Kind,
		Language: row.Language,
		Status:   JobStatus(row.Status),
		Error:    PgTextToString(row.ErrorMessage),
		Stats: Stats{
			Entries:             int(row.Entries),
			PartsMatched:        int(row.PartsMatched),
			PartsProcessed:      int(row.PartsProcessed),
			PartsFailed:         int(row.PartsFailed),
			FragmentsTranslated: int(row.FragmentsTranslated),
		},
		Duration:   time.Duration(row.DurationMs) * time.Millisecond,
		DurationMs: row.DurationMs,
		IPAddress:  PgTextToString(row.IpAddress),
		UserAgent:  PgTextToString(row.UserAgent),
		CreatedAt:  row.CreatedAt.Time,
	}
}

// ----------------------------------------------------------------------------
// In-memory store
// ----------------------------------------------------------------------------

// DefaultMemoryJobCapacity is how many records a MemoryJobStore keeps.
const DefaultMemoryJobCapacity = 200

// MemoryJobStore keeps the most recent job records in memory.
// The oldest record is dropped once capacity is reached.
type MemoryJobStore struct {
	mu       sync.RWMutex
	jobs     []JobRecord // oldest first
	capacity int
	now      func() time.Time
}

// NewMemoryJobStore creates a store holding up to capacity records.
func NewMemoryJobStore(capacity int) *MemoryJobStore {
	if capacity <= 0 {
		capacity = DefaultMemoryJobCapacity
	}
	return &MemoryJobStore{capacity: capacity, now: time.Now}
}

func (s *MemoryJobStore) Record(_ context.Context, job JobRecord) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = s.now()
	}
	job.DurationMs = job.Duration.Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	if over := len(s.jobs) - s.capacity; over > 0 {
		s.jobs = append(s.jobs[:0:0], s.jobs[over:]...)
	}
	return nil
}

func (s *MemoryJobStore) Get(_ context.Context, id string) (*JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.jobs) - 1; i >= 0; i-- {
		if s.jobs[i].ID == id {
			job := s.jobs[i]
			return &job, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
}

func (s *MemoryJobStore) List(_ context.Context, limit, offset int) (*JobPage, error) {
	limit, offset = normalizePage(limit, offset)

	s.mu.RLock()
	newest := make([]JobRecord, 0, len(s.jobs))
	for i := len(s.jobs) - 1; i >= 0; i-- {
		newest = append(newest, s.jobs[i])
	}
	s.mu.RUnlock()

	sort.SliceStable(newest, func(i, j int) bool {
		return newest[i].CreatedAt.After(newest[j].CreatedAt)
	})

	page := &JobPage{Jobs: []JobRecord{}, Total: int64(len(newest)), Limit: limit, Offset: offset}
	if offset >= len(newest) {
		return page, nil
	}
	end := offset + limit
	if end > len(newest) {
		end = len(newest)
	}
	page.Jobs = append(page.Jobs, newest[offset:end]...)
	return page, nil
}

func (s *MemoryJobStore) Prune(_ context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.jobs[:0]
	var pruned int64
	for _, job := range s.jobs {
		if job.CreatedAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, job)
	}
	s.jobs = kept
	return pruned, nil
}
