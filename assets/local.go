package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"company-onboarding/app/models"
)

// Local writes assets below a directory that the API serves statically.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("asset dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Dir() string { return l.dir }

func (l *Local) Put(ctx context.Context, kind Kind, filename, _ string, r io.Reader) (models.UploadResult, error) {
	name := objectName("", kind, filename)
	dst := filepath.Join(l.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return models.UploadResult{}, err
	}
	f, err := os.Create(dst)
	if err != nil {
		return models.UploadResult{}, err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return models.UploadResult{}, err
	}
	if err := f.Close(); err != nil {
		return models.UploadResult{}, err
	}
	if err := ctx.Err(); err != nil {
		os.Remove(dst)
		return models.UploadResult{}, err
	}
	return models.UploadResult{URL: l.baseURL + "/" + name, PublicID: name}, nil
}
