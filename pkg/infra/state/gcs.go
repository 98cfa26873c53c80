package state

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

// GCSStore keeps one JSON object per repository under a bucket prefix.
// Object uploads replace the previous generation atomically.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS creates a store writing objects to gs://bucket/prefix
func NewGCS(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client",
			goerr.T(types.ErrTagStorage), goerr.V("bucket", bucket))
	}

	return &GCSStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Close releases the storage client
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) object(repo model.TrackedRepository) (*storage.ObjectHandle, error) {
	key, err := recordKey(repo)
	if err != nil {
		return nil, err
	}
	return s.client.Bucket(s.bucket).Object(s.prefix + key + ".json"), nil
}

func (s *GCSStore) Load(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error) {
	obj, err := s.object(repo)
	if err != nil {
		return nil, err
	}

	r, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to open state object",
			goerr.T(types.ErrTagStorage), goerr.V("object", obj.ObjectName()))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read state object",
			goerr.T(types.ErrTagStorage), goerr.V("object", obj.ObjectName()))
	}

	desc, err := decodeDescriptor(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load state object", goerr.V("object", obj.ObjectName()))
	}
	return desc, nil
}

func (s *GCSStore) Save(ctx context.Context, repo model.TrackedRepository, desc *model.ReleaseDescriptor) error {
	obj, err := s.object(repo)
	if err != nil {
		return err
	}

	data, err := encodeDescriptor(desc)
	if err != nil {
		return err
	}

	w := obj.NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write state object",
			goerr.T(types.ErrTagStorage), goerr.V("object", obj.ObjectName()))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize state object",
			goerr.T(types.ErrTagStorage), goerr.V("object", obj.ObjectName()))
	}
	return nil
}
