package backend

import "github.com/MeKo-Tech/barscan/internal/decode"

// New returns the default single-symbol reader for this build. Without a
// backend build tag the reader fails every decode with ErrNoBackend, which
// the locator absorbs as an unreadable region.
func New() (decode.Reader, error) { return newDefaultReader() }
