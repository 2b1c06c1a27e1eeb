//go:build !backend_gozxing

package backend

import (
	"errors"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/decode"
	"github.com/MeKo-Tech/barscan/internal/symbol"
)

// ErrNoBackend is returned when no decoder backend is linked into the build.
var ErrNoBackend = errors.New("backend: no decoder linked; build with -tags=backend_gozxing or inject a reader")

type noBackend struct{}

func newDefaultReader() (decode.Reader, error) { return noBackend{}, nil }

func (noBackend) Decode(_ *bitmap.Bitmap, _ *decode.Options) (*symbol.Result, error) {
	return nil, ErrNoBackend
}
