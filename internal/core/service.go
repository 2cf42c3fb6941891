package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/JonMunkholm/doctranslate/internal/logging"
	"github.com/JonMunkholm/doctranslate/internal/translate"
	"github.com/google/uuid"
)

// Version identifies the build. Set at build time with
// -ldflags "-X github.com/JonMunkholm/doctranslate/internal/core.Version=...".
var Version = "dev"

// DefaultTransformTimeout bounds one whole transform.
var DefaultTransformTimeout = 10 * time.Minute

// languagePattern accepts language names ("Slovenian", "Brazilian Portuguese")
// and tags ("sl", "pt-BR", "zh_Hant"). The language is embedded in the output
// file name, so path separators and dots are rejected.
var languagePattern = regexp.MustCompile(`^\p{L}[\p{L}\p{M} _-]{0,63}$`)

// ServiceConfig tunes a Service. Zero values select defaults.
type ServiceConfig struct {
	MaxFileSize   int64         // Largest accepted document in bytes (0: unlimited)
	MaxPartSize   int64         // Largest decompressed part that is translated
	Timeout       time.Duration // Bound on one transform (default: 10m)
	MaxConcurrent int           // Parallel transforms (default: 4)
	MaxWaitTime   time.Duration // Wait for a transform slot (default: 30s)
}

// cacheSizer is implemented by translators that report their cache size.
type cacheSizer interface {
	CacheSize(ctx context.Context) int
}

// Service provides the document translation operations used by the web
// server and the CLI.
type Service struct {
	translator Translator
	jobs       JobStore
	limiter    *TransformLimiter
	cfg        ServiceConfig
}

// NewService creates a Service. jobs may be nil, which disables job history.
func NewService(translator Translator, jobs JobStore, cfg ServiceConfig) (*Service, error) {
	if translator == nil {
		return nil, errors.New("new service: translator is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTransformTimeout
	}

	return &Service{
		translator: translator,
		jobs:       jobs,
		limiter:    NewTransformLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		cfg:        cfg,
	}, nil
}

// ListKinds returns information about all registered document kinds.
func (s *Service) ListKinds() []KindInfo {
	defs := All()
	infos := make([]KindInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info()
	}
	return infos
}

// NormalizeLanguage trims the requested language, applies the default and
// rejects values that cannot name a language.
func NormalizeLanguage(language string) (string, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return translate.DefaultLanguage, nil
	}
	if !languagePattern.MatchString(language) {
		return "", fmt.Errorf("invalid language %q", language)
	}
	return language, nil
}

// Translate runs one document through the pipeline.
//
// The request is validated, its kind resolved and a transform slot acquired
// before any work starts. The transform itself is bounded by the configured
// timeout. If the deadline passes or ctx is cancelled mid-transform, the
// partial output is discarded and the context error is returned.
//
// Every request that reaches kind resolution is recorded in job history.
func (s *Service) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	start := time.Now()

	fileName := filepath.Base(strings.TrimSpace(req.FileName))
	if fileName == "" || fileName == "." || fileName == string(filepath.Separator) {
		return nil, errors.New("no file provided")
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("empty file: %s", fileName)
	}
	if s.cfg.MaxFileSize > 0 && int64(len(req.Data)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes exceeds limit of %d", len(req.Data), s.cfg.MaxFileSize)
	}

	language, err := NormalizeLanguage(req.Language)
	if err != nil {
		return nil, err
	}

	kind, err := ResolveKind(fileName)
	if err != nil {
		return nil, err
	}

	jobID := uuid.New().String()
	logger := logging.WithFields(ctx,
		"job_id", jobID,
		"kind", kind.Key,
		"file", fileName,
		"language", language,
	)

	result := &TranslateResult{
		JobID:     jobID,
		FileName:  OutputFileName(fileName, language),
		Kind:      kind.Key,
		MediaType: kind.MediaType,
		Language:  language,
	}

	out, stats, err := s.transform(ctx, req.Data, kind, language)
	result.Stats = stats
	result.Duration = time.Since(start)

	s.recordJob(ctx, fileName, result, err)

	if err != nil {
		logger.Warn("translation failed",
			"error", err,
			"duration_ms", result.Duration.Milliseconds(),
		)
		return nil, err
	}

	result.Data = out
	logger.Info("translation completed",
		"parts_processed", stats.PartsProcessed,
		"parts_failed", stats.PartsFailed,
		"fragments_translated", stats.FragmentsTranslated,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func (s *Service) transform(ctx context.Context, data []byte, kind KindDefinition, language string) ([]byte, Stats, error) {
	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, Stats{}, err
	}
	defer release()

	tctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	out, stats, err := Transform(tctx, data, kind, language, s.translator, WithMaxPartSize(s.cfg.MaxPartSize))
	if cs, ok := s.translator.(cacheSizer); ok {
		stats.CacheSize = cs.CacheSize(ctx)
	}
	if err != nil {
		return nil, stats, err
	}
	if err := tctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("transform interrupted: %w", err)
	}
	return out, stats, nil
}

// recordJob stores the outcome of a request. Failures to record are logged
// and never fail the request.
func (s *Service) recordJob(ctx context.Context, fileName string, result *TranslateResult, jobErr error) {
	if s.jobs == nil {
		return
	}

	meta := RequestMetaFromContext(ctx)
	job := JobRecord{
		ID:        result.JobID,
		FileName:  fileName,
		Kind:      result.Kind,
		Language:  result.Language,
		Status:    JobSucceeded,
		Stats:     result.Stats,
		Duration:  result.Duration,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if jobErr != nil {
		job.Status = JobFailed
		job.Error = jobErr.Error()
	}

	// The request context may already be cancelled; the record is still written.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.jobs.Record(recordCtx, job); err != nil {
		logging.FromContext(ctx).Error("failed to record job", "job_id", job.ID, "error", err)
	}
}

// ListJobs returns recorded jobs, newest first.
func (s *Service) ListJobs(ctx context.Context, limit, offset int) (*JobPage, error) {
	if s.jobs == nil {
		return nil, ErrHistoryDisabled
	}
	return s.jobs.List(ctx, limit, offset)
}

// GetJob returns one recorded job.
func (s *Service) GetJob(ctx context.Context, id string) (*JobRecord, error) {
	if s.jobs == nil {
		return nil, ErrHistoryDisabled
	}
	return s.jobs.Get(ctx, id)
}

// HistoryEnabled reports whether jobs are being recorded.
func (s *Service) HistoryEnabled() bool {
	return s.jobs != nil
}

// LimiterStatus returns the current transform limiter state.
func (s *Service) LimiterStatus() TransformLimiterStatus {
	return s.limiter.Status()
}

// WaitForTransforms blocks until all running transforms finish or ctx is done.
// Used during graceful shutdown.
func (s *Service) WaitForTransforms(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
