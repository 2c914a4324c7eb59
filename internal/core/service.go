package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/booklist/internal/config"
	"github.com/JonMunkholm/booklist/internal/logging"
	"github.com/google/uuid"
)

// ErrPipelinePanic wraps a panic recovered while building a catalog.
var ErrPipelinePanic = errors.New("pipeline panic")

// Service runs the load → parse → map pipeline for one configured source.
// It holds no per-run state and is safe for concurrent use.
type Service struct {
	loader   Loader
	location string
	limiter  *LoadLimiter
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLoadLimiter bounds concurrent source loads. A nil limiter means no bound.
func WithLoadLimiter(l *LoadLimiter) ServiceOption {
	return func(s *Service) { s.limiter = l }
}

// NewService creates a Service reading location through loader.
func NewService(loader Loader, location string, opts ...ServiceOption) *Service {
	s := &Service{
		loader:   loader,
		location: location,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WaitForLoads blocks until in-flight source loads finish or ctx is done.
func (s *Service) WaitForLoads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// LoadStatus reports the load limiter state.
func (s *Service) LoadStatus() LoadLimiterStatus {
	return s.limiter.Status()
}

// Location returns the configured source location.
func (s *Service) Location() string {
	return s.location
}

// Catalog runs the pipeline once. Each call loads the source again; nothing
// is cached between runs.
//
// A load failure is returned as-is (a *LoadError, or ErrTooManyLoads when
// the load limiter stays full). A panic while parsing or
// mapping is recovered and returned wrapped in ErrPipelinePanic, so callers
// have a single failure to report.
func (s *Service) Catalog(ctx context.Context) (*Catalog, error) {
	runID := uuid.New().String()
	ctx = ContextWithRunID(ctx, runID)
	logger := logging.WithFields(ctx,
		"run_id", runID,
		"location", config.MaskLocation(s.location),
	)

	start := time.Now()
	logger.Debug("pipeline started")

	doc, err := s.load(ctx)
	if err != nil {
		logger.Warn("source load failed",
			"error", err,
			"code", MapError(err).Code,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	mismatches := CheckHeader(doc.Text)
	if len(mismatches) > 0 {
		logger.Warn("source header does not match the column schema",
			"mismatches", len(mismatches),
			"first", mismatches[0].Error(),
		)
	}

	rows, books, err := buildCatalog(doc)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		return nil, err
	}

	cat := &Catalog{
		RunID:    runID,
		Location: s.location,
		Rows:     rows,
		Books:    books,
		Header:   mismatches,
		Bytes:    doc.Size,
		LoadedAt: start,
		Duration: time.Since(start),
	}

	logger.Info("pipeline completed",
		"bytes", doc.Size,
		"rows", len(rows),
		"books", len(books),
		"duration_ms", cat.Duration.Milliseconds(),
	)
	return cat, nil
}

func (s *Service) load(ctx context.Context) (Document, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return Document{}, err
	}
	defer s.limiter.Release()
	return s.loader.Load(ctx, s.location)
}

// buildCatalog parses the document and maps the rows to books.
func buildCatalog(doc Document) (rows []Row, books []Book, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPipelinePanic, r)
		}
	}()

	rows = ParseRows(doc.Text)
	books = BooksFromRows(rows)
	return rows, books, nil
}
