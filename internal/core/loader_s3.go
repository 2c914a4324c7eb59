package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(region string) (s3iface.S3API, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

// S3Loader fetches documents stored as s3://bucket/key objects.
type S3Loader struct {
	client   s3iface.S3API
	maxBytes int64
}

// NewS3Loader creates a loader backed by client.
func NewS3Loader(client s3iface.S3API, maxBytes int64) *S3Loader {
	return &S3Loader{client: client, maxBytes: maxBytes}
}

// Load implements Loader. S3 request failures keep their HTTP status code.
func (l *S3Loader) Load(ctx context.Context, location string) (Document, error) {
	bucket, key, err := parseS3Location(location)
	if err != nil {
		return Document{}, &LoadError{Location: location, Err: err}
	}

	out, err := l.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var reqErr awserr.RequestFailure
		if errors.As(err, &reqErr) {
			return Document{}, &LoadError{Location: location, Status: reqErr.StatusCode(), Err: err}
		}
		return Document{}, &LoadError{Location: location, Err: err}
	}
	defer out.Body.Close()

	text, n, err := readDocument(out.Body, l.maxBytes)
	if err != nil {
		return Document{}, &LoadError{Location: location, Err: err}
	}
	return Document{Location: location, Text: text, Size: n}, nil
}

// parseS3Location splits s3://bucket/path/to/key into bucket and key.
func parseS3Location(location string) (bucket, key string, err error) {
	if schemeOf(location) != "s3" {
		return "", "", fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
	}
	rest := location[len("s3://"):]
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
	}
	return parts[0], parts[1], nil
}
