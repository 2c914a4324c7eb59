package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLoader returns a fixed document or error and records each call.
type stubLoader struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []string
	runs  []string
}

func (s *stubLoader) Load(ctx context.Context, location string) (Document, error) {
	s.mu.Lock()
	s.calls = append(s.calls, location)
	s.runs = append(s.runs, RunIDFromContext(ctx))
	s.mu.Unlock()

	if s.err != nil {
		return Document{}, s.err
	}
	return Document{Location: location, Text: s.text, Size: int64(len(s.text))}, nil
}

func TestService_Catalog(t *testing.T) {
	loader := &stubLoader{text: sampleCSV}
	svc := NewService(loader, "data/booklist.csv")

	cat, err := svc.Catalog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"data/booklist.csv"}, loader.calls)
	assert.Equal(t, "data/booklist.csv", cat.Location)
	assert.Len(t, cat.Rows, 2, "data line plus the empty line after the trailing newline")
	require.Len(t, cat.Books, 1)
	assert.Equal(t, "Wonder", cat.Books[0].Title)
	assert.Equal(t, int64(len(sampleCSV)), cat.Bytes)
	assert.Empty(t, cat.Header)

	_, err = uuid.Parse(cat.RunID)
	assert.NoError(t, err, "run ID should be a UUID")
	assert.Equal(t, cat.RunID, loader.runs[0], "loader should see the run ID in context")
}

func TestService_CatalogLoadError(t *testing.T) {
	loadErr := &LoadError{Location: "/booklist.csv", Status: 404}
	svc := NewService(&stubLoader{err: loadErr}, "/booklist.csv")

	cat, err := svc.Catalog(context.Background())

	assert.Nil(t, cat)
	assert.Same(t, loadErr, err)
}

func TestService_RunsAreIndependent(t *testing.T) {
	loader := &stubLoader{text: sampleCSV}
	svc := NewService(loader, "data/booklist.csv")

	first, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	second, err := svc.Catalog(context.Background())
	require.NoError(t, err)

	assert.Len(t, loader.calls, 2, "no caching between runs")
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Rows, second.Rows)

	first.Books[0].Title = "changed"
	assert.Equal(t, "Wonder", second.Books[0].Title)
}

func TestService_ConcurrentRuns(t *testing.T) {
	svc := NewService(&stubLoader{text: sampleCSV}, "data/booklist.csv")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cat, err := svc.Catalog(context.Background())
			if assert.NoError(t, err) {
				assert.Len(t, cat.Books, 1)
			}
		}()
	}
	wg.Wait()
}

func TestBuildCatalog_HeaderOnly(t *testing.T) {
	rows, books, err := buildCatalog(Document{Text: header})

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, books)
}

// blockingLoader holds every Load until release is closed.
type blockingLoader struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingLoader) Load(ctx context.Context, location string) (Document, error) {
	b.started <- struct{}{}
	<-b.release
	return Document{Location: location, Text: sampleCSV}, nil
}

func TestService_LoadLimiter(t *testing.T) {
	loader := &blockingLoader{started: make(chan struct{}, 1), release: make(chan struct{})}
	svc := NewService(loader, "data/booklist.csv", WithLoadLimiter(NewLoadLimiter(1, 20*time.Millisecond)))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Catalog(context.Background())
		done <- err
	}()
	<-loader.started
	assert.Equal(t, 1, svc.LoadStatus().Active)

	_, err := svc.Catalog(context.Background())
	assert.ErrorIs(t, err, ErrTooManyLoads)
	assert.Equal(t, "LOAD007", MapError(err).Code)

	close(loader.release)
	require.NoError(t, <-done)
	require.NoError(t, svc.WaitForLoads(context.Background()))
	assert.Zero(t, svc.LoadStatus().Active)
}

func TestService_ReportsHeaderDrift(t *testing.T) {
	text := "Title,Author\n1,,Wonder\n"
	svc := NewService(&stubLoader{text: text}, "data/booklist.csv")

	cat, err := svc.Catalog(context.Background())

	require.NoError(t, err, "a drifted header is reported, not fatal")
	assert.Len(t, cat.Header, len(Schema))
	assert.Len(t, cat.Books, 1)
}
