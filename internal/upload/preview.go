// Package upload prepares profile images chosen in the wizard. The
// application document only ever stores a reference to the source file;
// previews are short-lived thumbnails owned by whoever acquired them.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/mark3labs/teacherhub/internal/logger"
)

// ThumbnailSize is the edge length of generated previews in pixels.
const ThumbnailSize = 128

// ErrNotImage is returned when the selected file is not an image.
var ErrNotImage = errors.New("selected file is not an image")

// Preview is a thumbnail of a selected image. Release it when the view
// that acquired it goes away.
type Preview struct {
	// Ref is the absolute path of the source image. This is what gets
	// stored in the document.
	Ref string
	// Path is the temporary thumbnail file.
	Path   string
	MIME   string
	Width  int
	Height int

	once sync.Once
	err  error
}

// Acquire inspects the file at path and writes a thumbnail of it to a
// temporary file.
func Acquire(path string) (*Preview, error) {
	ref, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	mtype, err := mimetype.DetectFile(ref)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ref, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotImage, filepath.Base(ref), mtype.String())
	}

	img, err := imaging.Open(ref, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ref, err)
	}
	bounds := img.Bounds()
	thumb := imaging.Thumbnail(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	f, err := os.CreateTemp("", "teacherhub-preview-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating preview file: %w", err)
	}
	if err := imaging.Encode(f, thumb, imaging.PNG); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("writing preview: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("writing preview: %w", err)
	}

	logger.Debug("Acquired preview %s for %s", f.Name(), ref)
	return &Preview{
		Ref:    ref,
		Path:   f.Name(),
		MIME:   mtype.String(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Release removes the thumbnail. Only the first call does any work.
func (p *Preview) Release() error {
	if p == nil {
		return nil
	}
	p.once.Do(func() {
		if err := os.Remove(p.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.err = fmt.Errorf("removing preview: %w", err)
			return
		}
		logger.Debug("Released preview %s", p.Path)
	})
	return p.err
}

// Describe returns a one-line summary for display.
func (p *Preview) Describe() string {
	return fmt.Sprintf("%s (%s, %dx%d)", filepath.Base(p.Ref), p.MIME, p.Width, p.Height)
}
