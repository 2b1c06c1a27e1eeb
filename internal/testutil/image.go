package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
)

// NewTestImage creates a white canvas with black rectangles drawn at the
// given regions, the usual shape of synthetic localization fixtures.
func NewTestImage(width, height int, blackRects ...image.Rectangle) *image.NRGBA {
	img := imaging.New(width, height, color.White)
	for _, r := range blackRects {
		draw.Draw(img, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	return img
}

// NewTestBitmap binarizes a synthetic image into a bitmap view and asserts
// the expected dimensions.
func NewTestBitmap(t *testing.T, width, height int, blackRects ...image.Rectangle) *bitmap.Bitmap {
	t.Helper()

	bm := bitmap.FromImage(NewTestImage(width, height, blackRects...))
	require.Equal(t, width, bm.Width())
	require.Equal(t, height, bm.Height())
	return bm
}

