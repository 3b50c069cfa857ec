// Package blobstore provides bucket-scoped object storage for generated
// documents and uploaded lab reports. It defines the Store interface, an
// in-memory implementation for tests and development, a Postgres-backed
// implementation, and an Echo handler that serves objects by public reference.
package blobstore

import (
	"bufio"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/ridi/hms/internal/platform/apperr"
)

var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrInvalidName        = errors.New("invalid bucket or object name")
)

// MaxFileSize is the maximum allowed object size in bytes (5 MiB).
const MaxFileSize = 5 * 1024 * 1024

// Buckets used by the service.
const (
	BucketLabReports = "lab-reports"
	BucketInvoices   = "invoices"
)

// AllowedContentTypes lists the MIME types accepted for upload.
var AllowedContentTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"application/pdf": true,
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,254}$`)

// Object describes a stored object.
type Object struct {
	Bucket      string    `json:"bucket"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store defines the contract for object storage backends. Put overwrites an
// existing object with the same bucket and name.
type Store interface {
	Put(ctx context.Context, bucket, name, contentType string, content io.Reader) (*Object, error)
	Get(ctx context.Context, bucket, name string) (io.ReadCloser, *Object, error)
	Delete(ctx context.Context, bucket, name string) error
}

// ValidateName checks bucket and object names against a conservative pattern
// so they can be embedded in URLs unescaped.
func ValidateName(bucket, name string) error {
	if !namePattern.MatchString(bucket) || !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

// MediaType returns the lower-cased media type of contentType without
// parameters.
func MediaType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
}

// ValidateContentType checks the declared MIME type, ignoring parameters.
func ValidateContentType(contentType string) error {
	if !AllowedContentTypes[MediaType(contentType)] {
		return fmt.Errorf("%w: %q", ErrInvalidContentType, contentType)
	}
	return nil
}

const sniffLen = 512

// CheckContent sniffs the first bytes of content and fails unless they match
// the declared type. The returned reader yields the complete content.
func CheckContent(contentType string, content io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(content, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	declared := MediaType(contentType)
	if sniffed := MediaType(http.DetectContentType(head)); sniffed != declared {
		return nil, fmt.Errorf("%w: declared %q but content is %q", ErrInvalidContentType, declared, sniffed)
	}
	return br, nil
}

// readLimited reads content fully, failing with ErrFileTooLarge past MaxFileSize.
func readLimited(content io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func hashOf(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// PublicURL returns the retrievable reference for an object.
func PublicURL(baseURL, bucket, name string) string {
	return strings.TrimRight(baseURL, "/") + "/storage/" + bucket + "/" + name
}

// ParsePublicURL extracts bucket and object name from a reference produced
// by PublicURL. It returns ok=false for references it did not produce.
func ParsePublicURL(ref string) (bucket, name string, ok bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", false
	}
	p := path.Clean(u.Path)
	idx := strings.LastIndex(p, "/storage/")
	if idx < 0 {
		return "", "", false
	}
	parts := strings.Split(p[idx+len("/storage/"):], "/")
	if len(parts) != 2 || ValidateName(parts[0], parts[1]) != nil {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Classify maps a store error onto the apperr taxonomy: rejected uploads are
// validation failures, a missing object is not-found, and everything else is
// a backend failure.
func Classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrFileTooLarge), errors.Is(err, ErrInvalidContentType), errors.Is(err, ErrInvalidName):
		return apperr.Validation("%s: %v", op, err)
	case errors.Is(err, ErrObjectNotFound):
		return apperr.NotFound("stored object")
	default:
		return apperr.Backend(op, err)
	}
}
