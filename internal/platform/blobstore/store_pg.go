package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/ridi/hms/internal/platform/db"
)

// PGStore keeps objects in the storage_object table.
type PGStore struct {
	q db.Querier
}

func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

func (s *PGStore) Put(ctx context.Context, bucket, name, contentType string, content io.Reader) (*Object, error) {
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

	obj := &Object{
		Bucket:      bucket,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Hash:        hashOf(data),
	}
	err = s.q.QueryRow(ctx, `
		INSERT INTO storage_object (bucket, name, content_type, size, hash, content)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (bucket, name) DO UPDATE SET
			content_type = EXCLUDED.content_type, size = EXCLUDED.size,
			hash = EXCLUDED.hash, content = EXCLUDED.content, created_at = NOW()
		RETURNING created_at`,
		obj.Bucket, obj.Name, obj.ContentType, obj.Size, obj.Hash, data,
	).Scan(&obj.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store object %s/%s: %w", bucket, name, err)
	}
	return obj, nil
}

func (s *PGStore) Get(ctx context.Context, bucket, name string) (io.ReadCloser, *Object, error) {
	obj := &Object{Bucket: bucket, Name: name}
	var data []byte
	err := s.q.QueryRow(ctx, `
		SELECT content_type, size, hash, created_at, content
		FROM storage_object WHERE bucket = $1 AND name = $2`, bucket, name,
	).Scan(&obj.ContentType, &obj.Size, &obj.Hash, &obj.CreatedAt, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load object %s/%s: %w", bucket, name, err)
	}
	return io.NopCloser(bytes.NewReader(data)), obj, nil
}

func (s *PGStore) Delete(ctx context.Context, bucket, name string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM storage_object WHERE bucket = $1 AND name = $2`, bucket, name)
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", bucket, name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrObjectNotFound
	}
	return nil
}
