// Package decode defines the single-symbol decoder contract the locator
// drives, together with its error model.
package decode

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/symbol"
)

// ErrUnreadable is the condition every failed decode wraps: nothing found
// in the view, a malformed payload, or a checksum mismatch. Callers cannot,
// and must not, distinguish the sub-kinds.
var ErrUnreadable = errors.New("no readable barcode in region")

// ErrNotFound is raised by the multi-symbol locator when a full search
// finds nothing at all. It wraps ErrUnreadable.
var ErrNotFound = fmt.Errorf("no barcode found: %w", ErrUnreadable)

// Options is a hint bag forwarded unchanged to decoder implementations.
// The locator never interprets it; nil means no hints.
type Options struct {
	// TryHarder enables spending more time looking for a symbol.
	TryHarder bool

	// PureBarcode hints that the view contains only the symbol with
	// minimal border and no rotation.
	PureBarcode bool

	// PossibleFormats limits which symbologies to look for.
	PossibleFormats []symbol.Format

	// CharacterSet overrides the character set used when decoding payloads.
	CharacterSet string

	// AlsoInverted enables checking for symbols on inverted images.
	AlsoInverted bool
}

// Reader decodes exactly one symbol from a bitmap view, or fails with an
// error wrapping ErrUnreadable. Implementations must treat an empty view
// as unreadable rather than an internal fault.
type Reader interface {
	Decode(bm *bitmap.Bitmap, opts *Options) (*symbol.Result, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(bm *bitmap.Bitmap, opts *Options) (*symbol.Result, error)

// Decode implements Reader.
func (f ReaderFunc) Decode(bm *bitmap.Bitmap, opts *Options) (*symbol.Result, error) {
	return f(bm, opts)
}
