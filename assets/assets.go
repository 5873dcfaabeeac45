// Package assets stores uploaded company images on an external asset host
// and returns their public URLs.
package assets

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"company-onboarding/app/models"
)

type Kind string

const (
	KindLogo   Kind = "logo"
	KindBanner Kind = "banner"
)

type Store interface {
	Put(ctx context.Context, kind Kind, filename, contentType string, r io.Reader) (models.UploadResult, error)
}

// objectName builds "<folder>/<kind>/<uuid><ext>"; the client filename only
// contributes its extension.
func objectName(folder string, kind Kind, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 8 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return path.Join(folder, string(kind), uuid.NewString()+ext)
}
