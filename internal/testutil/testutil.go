// Package testutil provides helpers shared by package tests: synthetic
// bitmap construction and scripted decoder stubs for exercising the
// locator without a real backend.
package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/decode"
	"github.com/MeKo-Tech/barscan/internal/symbol"
)

// GetProjectRoot returns the project root directory by finding go.mod.
func GetProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("failed to get caller information")
	}
	dir := filepath.Dir(filename)

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("could not find go.mod file starting from %s", filepath.Dir(filename))
}

// StaticReader returns a reader that answers every decode with the same
// result or error.
func StaticReader(result *symbol.Result, err error) decode.Reader {
	return decode.ReaderFunc(func(_ *bitmap.Bitmap, _ *decode.Options) (*symbol.Result, error) {
		return result, err
	})
}

// FailingReader returns a reader that finds nothing anywhere.
func FailingReader() decode.Reader {
	return StaticReader(nil, decode.ErrUnreadable)
}

// Points builds a localization sequence from coordinate pairs.
func Points(coords ...float64) []*symbol.Point {
	pts := make([]*symbol.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, &symbol.Point{X: coords[i], Y: coords[i+1]})
	}
	return pts
}
