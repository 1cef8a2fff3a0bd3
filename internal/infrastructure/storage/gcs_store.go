// Package storage publishes documents to Google Cloud Storage.
package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
)

type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore returns nil unless both a client and a bucket are given.
func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	if client == nil || bucket == "" {
		return nil
	}
	return &GCSStore{client: client, bucket: bucket}
}

// calendarCacheControl keeps subscribed calendar apps from serving a stale
// feed for long.
const calendarCacheControl = "public, max-age=300"

// Put overwrites objectPath and returns its public URL.
func (s *GCSStore) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	attrs := helpers.ObjectAttrs{ContentType: contentType, CacheControl: calendarCacheControl}
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, attrs, r)
}
