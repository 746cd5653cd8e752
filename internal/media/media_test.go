package media_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mymat/internal/media"
)

// upload builds a real multipart header the way an HTTP handler receives it.
func upload(t *testing.T, name, body string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestSaveProductImage(t *testing.T) {
	s := media.NewStore(t.TempDir())
	url, err := s.SaveProductImage(upload(t, "Prayer Mat.PNG", "png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/products/"))
	require.True(t, strings.HasSuffix(url, ".png"))

	full, err := s.Resolve(strings.TrimPrefix(url, media.URLPrefix))
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
}

func TestSaveRejectsUnknownTypes(t *testing.T) {
	s := media.NewStore(t.TempDir())
	for _, name := range []string{"shell.php", "noext", "mat.svg"} {
		_, err := s.SaveProductImage(upload(t, name, "x"))
		require.ErrorIs(t, err, media.ErrType, name)
	}
	entries, _ := os.ReadDir(filepath.Join(s.Dir(), "products"))
	require.Empty(t, entries)
}

func TestResolveBlocksTraversal(t *testing.T) {
	s := media.NewStore(t.TempDir())
	for _, p := range []string{"../etc/passwd", "products/../../x", "%2e%2e/secret", "a\x00b", "/etc/passwd", ""} {
		_, err := s.Resolve(p)
		require.ErrorIs(t, err, media.ErrTraversal, "path %q", p)
	}
	full, err := s.Resolve("products/a.jpg")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(s.Dir(), "products", "a.jpg"), full)
}
