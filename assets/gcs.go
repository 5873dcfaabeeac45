package assets

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"company-onboarding/app/models"
)

// GCS uploads objects to a publicly readable Google Cloud Storage bucket.
type GCS struct {
	svc    *storage.Service
	bucket string
	folder string
}

func NewGCS(ctx context.Context, bucket, folder, credentialsFile string) (*GCS, error) {
	opts := []option.ClientOption{option.WithScopes(storage.DevstorageReadWriteScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs service: %w", err)
	}
	return &GCS{svc: svc, bucket: bucket, folder: folder}, nil
}

func (g *GCS) Put(ctx context.Context, kind Kind, filename, contentType string, r io.Reader) (models.UploadResult, error) {
	name := objectName(g.folder, kind, filename)
	obj, err := g.svc.Objects.Insert(g.bucket, &storage.Object{Name: name, ContentType: contentType}).
		Media(r).
		Context(ctx).
		Do()
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("gcs upload: %w", err)
	}
	return models.UploadResult{
		URL:      publicURL(g.bucket, obj.Name),
		PublicID: obj.Name,
	}, nil
}

func publicURL(bucket, name string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + name}
	return u.String()
}
