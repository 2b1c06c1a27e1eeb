// Package imageio loads raster images for the scan surface. Image
// acquisition proper is upstream of the library; this covers the file
// formats the CLI accepts.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

// SupportedImageExtensions lists supported file extensions for loading.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ImageMetadata captures lightweight file and pixel information.
type ImageMetadata struct {
	Path      string
	Format    string
	SizeBytes int64
	Width     int
	Height    int
}

// LoadImage opens and decodes an image file, returning the image and metadata.
func LoadImage(path string) (image.Image, ImageMetadata, error) {
	if path == "" {
		return nil, ImageMetadata{}, errors.New("empty path")
	}
	if !IsSupportedImage(path) {
		return nil, ImageMetadata{}, fmt.Errorf("unsupported format: %s", filepath.Ext(path))
	}

	f, err := os.Open(path) //nolint:gosec // G304: Reading user-provided image file path is expected
	if err != nil {
		return nil, ImageMetadata{}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Error closing image file: %v\n", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, ImageMetadata{}, err
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, ImageMetadata{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	bounds := img.Bounds()
	meta := ImageMetadata{
		Path:      path,
		Format:    format,
		SizeBytes: info.Size(),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}
	return img, meta, nil
}
