package capture

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// Format is an image file encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// ParseFormat accepts png, jpeg and jpg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return ".png"
}

// FileSink writes each frame as an image file named frame_00042.png.
type FileSink struct {
	Dir     string
	Format  Format
	Quality int
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string, format Format) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &FileSink{Dir: dir, Format: format, Quality: 95}, nil
}

// Path returns the file a frame is written to.
func (s *FileSink) Path(frame int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("frame_%05d%s", frame, s.Format.Ext()))
}

func (s *FileSink) WriteFrame(_ context.Context, frame int, img *image.RGBA) error {
	enc := imgio.PNGEncoder()
	if s.Format == JPEG {
		enc = imgio.JPEGEncoder(s.Quality)
	}
	path := s.Path(frame)
	if err := imgio.Save(path, img, enc); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
