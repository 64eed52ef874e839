package upload

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "avatar.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestAcquire(t *testing.T) {
	src := writePNG(t, 400, 200)

	p, err := Acquire(src)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Release() })

	assert.Equal(t, src, p.Ref)
	assert.Equal(t, "image/png", p.MIME)
	assert.Equal(t, 400, p.Width)
	assert.Equal(t, 200, p.Height)
	assert.Equal(t, "avatar.png (image/png, 400x200)", p.Describe())

	f, err := os.Open(p.Path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, ThumbnailSize, cfg.Width)
	assert.Equal(t, ThumbnailSize, cfg.Height)
}

func TestRelease_IsIdempotent(t *testing.T) {
	p, err := Acquire(writePNG(t, 10, 10))
	require.NoError(t, err)

	require.NoError(t, p.Release())
	_, err = os.Stat(p.Path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, p.Release())

	var nilPreview *Preview
	assert.NoError(t, nilPreview.Release())
}

func TestAcquire_RejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Curriculum vitae\n"), 0644))

	_, err := Acquire(path)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestAcquire_MissingFile(t *testing.T) {
	_, err := Acquire(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
