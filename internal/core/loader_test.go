package core

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = header + "\n1,,Wonder,R. J. Palacio,\"kindness, difference\",Fiction,A boy,9780375869020,$9,8-12\n"

func TestHTTPLoader_Success(t *testing.T) {
	var gotRunID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRunID = r.Header.Get(RunIDHeader)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, sampleCSV)
	}))
	defer srv.Close()

	ctx := ContextWithRunID(context.Background(), "run-1")
	doc, err := NewHTTPLoader(srv.Client(), 0).Load(ctx, srv.URL+"/booklist.csv")

	require.NoError(t, err)
	assert.Equal(t, sampleCSV, doc.Text)
	assert.Equal(t, int64(len(sampleCSV)), doc.Size)
	assert.Equal(t, srv.URL+"/booklist.csv", doc.Location)
	assert.Equal(t, "run-1", gotRunID)
}

func TestHTTPLoader_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError, http.StatusMovedPermanently} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if status == http.StatusMovedPermanently {
					// No Location header, so the client cannot follow it.
					w.WriteHeader(status)
					return
				}
				http.Error(w, "nope", status)
			}))
			defer srv.Close()

			_, err := NewHTTPLoader(srv.Client(), 0).Load(context.Background(), srv.URL)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, status, loadErr.Status)
			assert.Equal(t, srv.URL, loadErr.Location)
			assert.Contains(t, err.Error(), srv.URL)
		})
	}
}

func TestHTTPLoader_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPLoader(http.DefaultClient, 0).Load(context.Background(), url)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Zero(t, loadErr.Status)
	assert.Error(t, loadErr.Err)
}

func TestHTTPLoader_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	_, err := NewHTTPLoader(client, 0).Load(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Equal(t, "LOAD006", MapError(err).Code)
}

func TestHTTPLoader_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 100))
	}))
	defer srv.Close()

	_, err := NewHTTPLoader(srv.Client(), 10).Load(context.Background(), srv.URL)

	assert.ErrorIs(t, err, ErrDocumentTooLarge)
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "booklist.csv")
	require.NoError(t, os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, sampleCSV...), 0o644))

	for _, location := range []string{path, "file://" + path} {
		t.Run(location, func(t *testing.T) {
			doc, err := NewFileLoader(0).Load(context.Background(), location)

			require.NoError(t, err)
			assert.Equal(t, sampleCSV, doc.Text, "BOM should be stripped")
			assert.Equal(t, int64(len(sampleCSV)+3), doc.Size)
		})
	}
}

func TestFileLoader_Missing(t *testing.T) {
	location := filepath.Join(t.TempDir(), "missing.csv")

	_, err := NewFileLoader(0).Load(context.Background(), location)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.True(t, loadErr.NotFound())
}

func TestFileLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileLoader(0).Load(ctx, "data/booklist.csv")

	assert.ErrorIs(t, err, context.Canceled)
}

type fakeS3 struct {
	s3iface.S3API
	body      string
	err       error
	gotBucket string
	gotKey    string
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.gotBucket = aws.StringValue(in.Bucket)
	f.gotKey = aws.StringValue(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Loader(t *testing.T) {
	fake := &fakeS3{body: sampleCSV}

	doc, err := NewS3Loader(fake, 0).Load(context.Background(), "s3://books/lists/booklist.csv")

	require.NoError(t, err)
	assert.Equal(t, sampleCSV, doc.Text)
	assert.Equal(t, "books", fake.gotBucket)
	assert.Equal(t, "lists/booklist.csv", fake.gotKey)
}

func TestS3Loader_RequestFailureKeepsStatus(t *testing.T) {
	fake := &fakeS3{err: awserr.NewRequestFailure(awserr.New("NoSuchKey", "key does not exist", nil), 404, "req-1")}

	_, err := NewS3Loader(fake, 0).Load(context.Background(), "s3://books/booklist.csv")

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, http.StatusNotFound, loadErr.Status)
	assert.Equal(t, "LOAD001", MapError(err).Code)
}

func TestParseS3Location(t *testing.T) {
	tests := []struct {
		in      string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://b/k.csv", "b", "k.csv", false},
		{"s3://b/dir/k.csv", "b", "dir/k.csv", false},
		{"s3://b", "", "", true},
		{"s3://b/", "", "", true},
		{"s3:///k.csv", "", "", true},
		{"/tmp/k.csv", "", "", true},
	}

	for _, tt := range tests {
		bucket, key, err := parseS3Location(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.bucket, bucket)
		assert.Equal(t, tt.key, key)
	}
}

func TestSourceLoader_Dispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "h\nfrom-http")
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "booklist.csv")
	require.NoError(t, os.WriteFile(path, []byte("h\nfrom-file"), 0o644))

	loader := NewSourceLoader(LoaderOptions{HTTPClient: srv.Client()})

	doc, err := loader.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "h\nfrom-http", doc.Text)

	doc, err = loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "h\nfrom-file", doc.Text)
}

func TestSourceLoader_EmptyLocation(t *testing.T) {
	_, err := NewSourceLoader(LoaderOptions{}).Load(context.Background(), "  ")

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, ErrEmptyLocation)
}

func TestIsLocalFile(t *testing.T) {
	assert.True(t, IsLocalFile("data/booklist.csv"))
	assert.True(t, IsLocalFile("/booklist.csv"))
	assert.True(t, IsLocalFile("file:///srv/booklist.csv"))
	assert.True(t, IsLocalFile(`C://books/booklist.csv`))
	assert.False(t, IsLocalFile("https://example.com/booklist.csv"))
	assert.False(t, IsLocalFile("s3://bucket/booklist.csv"))
	assert.False(t, IsLocalFile(""))
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/srv/booklist.csv", LocalPath("file:///srv/booklist.csv"))
	assert.Equal(t, "data/booklist.csv", LocalPath("data/booklist.csv"))
}

func TestLoadError_Message(t *testing.T) {
	assert.Equal(t, "load /booklist.csv: status 404", (&LoadError{Location: "/booklist.csv", Status: 404}).Error())
	assert.Equal(t, "load x: boom", (&LoadError{Location: "x", Err: errors.New("boom")}).Error())
}
