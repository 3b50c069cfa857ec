package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

type storedObject struct {
	meta    Object
	content []byte
}

// InMemoryStore is a thread-safe, in-memory Store for tests and development.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*storedObject
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{objects: make(map[string]*storedObject)}
}

func key(bucket, name string) string { return bucket + "/" + name }

// Put validates inputs, reads the content, computes a SHA-256 hash and
// stores the object.
func (s *InMemoryStore) Put(_ context.Context, bucket, name, contentType string, content io.Reader) (*Object, error) {
	if err := ValidateName(bucket, name); err != nil {
		return nil, err
	}
	if err := ValidateContentType(contentType); err != nil {
		return nil, err
	}
	data, err := readLimited(content)
	if err != nil {
		return nil, err
	}

	meta := Object{
		Bucket:      bucket,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Hash:        hashOf(data),
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.objects[key(bucket, name)] = &storedObject{meta: meta, content: data}
	s.mu.Unlock()

	out := meta
	return &out, nil
}

func (s *InMemoryStore) Get(_ context.Context, bucket, name string) (io.ReadCloser, *Object, error) {
	s.mu.RLock()
	obj, ok := s.objects[key(bucket, name)]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrObjectNotFound
	}

	meta := obj.meta
	return io.NopCloser(bytes.NewReader(obj.content)), &meta, nil
}

func (s *InMemoryStore) Delete(_ context.Context, bucket, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(bucket, name)
	if _, ok := s.objects[k]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, k)
	return nil
}

// Len returns the number of stored objects.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
