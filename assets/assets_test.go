package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := objectName("company_module", KindLogo, "Logo.PNG")
	assert.True(t, strings.HasPrefix(name, "company_module/logo/"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	name = objectName("", KindBanner, "banner")
	assert.True(t, strings.HasPrefix(name, "banner/"))
	assert.Equal(t, "", filepath.Ext(name))

	name = objectName("", KindBanner, "x.averyveryverylongext")
	assert.Equal(t, "", filepath.Ext(name))
}

func TestLocal_Put(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "http://localhost:4000/uploads/")
	require.NoError(t, err)

	res, err := l.Put(context.Background(), KindLogo, "logo.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, "http://localhost:4000/uploads/logo/"))
	assert.True(t, strings.HasPrefix(res.PublicID, "logo/"))

	b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.PublicID)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
}

func TestLocal_PutCancelled(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Put(ctx, KindBanner, "b.jpg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/bucket/company_module/logo/a.png",
		publicURL("bucket", "company_module/logo/a.png"))
}
