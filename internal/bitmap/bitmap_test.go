package bitmap

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayWithBlackRect(w, h int, r image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if image.Pt(x, y).In(r) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestFromImageDimensionsAndPixels(t *testing.T) {
	bm := FromImage(grayWithBlackRect(64, 48, image.Rect(10, 12, 20, 22)))
	require.Equal(t, 64, bm.Width())
	require.Equal(t, 48, bm.Height())

	assert.True(t, bm.Get(10, 12), "inside the black square")
	assert.True(t, bm.Get(19, 21))
	assert.False(t, bm.Get(9, 12), "left of the black square")
	assert.False(t, bm.Get(20, 22))
	assert.False(t, bm.Get(0, 0))
}

func TestGetOutOfRangeIsWhite(t *testing.T) {
	bm := FromImage(grayWithBlackRect(16, 16, image.Rect(0, 0, 16, 16)))
	assert.False(t, bm.Get(-1, 0))
	assert.False(t, bm.Get(0, -1))
	assert.False(t, bm.Get(16, 0))
	assert.False(t, bm.Get(0, 16))
}

func TestCropAddressesSubRectangle(t *testing.T) {
	bm := FromImage(grayWithBlackRect(64, 64, image.Rect(30, 30, 40, 40)))

	crop := bm.Crop(30, 30, 20, 20)
	require.Equal(t, 20, crop.Width())
	require.Equal(t, 20, crop.Height())
	assert.True(t, crop.Get(0, 0), "crop origin maps to (30,30) of the parent")
	assert.True(t, crop.Get(9, 9))
	assert.False(t, crop.Get(10, 10))

	// The source view is untouched.
	assert.True(t, bm.Get(30, 30))
	assert.False(t, bm.Get(50, 50))
}

func TestCropComposes(t *testing.T) {
	bm := FromImage(grayWithBlackRect(100, 100, image.Rect(60, 60, 70, 70)))

	outer := bm.Crop(50, 50, 50, 50)
	inner := outer.Crop(10, 10, 20, 20)
	require.Equal(t, 20, inner.Width())
	require.Equal(t, 20, inner.Height())
	// inner (0,0) is (60,60) in the original image.
	assert.True(t, inner.Get(0, 0))
	assert.True(t, inner.Get(9, 9))
	assert.False(t, inner.Get(10, 10))
}

func TestCropClampsToViewBounds(t *testing.T) {
	bm := New(100, 100)

	clamped := bm.Crop(80, 90, 50, 50)
	assert.Equal(t, 20, clamped.Width())
	assert.Equal(t, 10, clamped.Height())

	neg := bm.Crop(-10, -10, 30, 30)
	assert.Equal(t, 20, neg.Width())
	assert.Equal(t, 20, neg.Height())
}

func TestCropDegenerateIsEmpty(t *testing.T) {
	bm := New(100, 100)

	for _, c := range []*Bitmap{
		bm.Crop(0, 0, 0, 50),
		bm.Crop(0, 0, 50, 0),
		bm.Crop(0, 0, -5, 50),
		bm.Crop(100, 0, 10, 10),
		bm.Crop(0, 100, 10, 10),
	} {
		assert.True(t, c.Empty())
		assert.Equal(t, 0, c.Width())
		assert.Equal(t, 0, c.Height())
	}
}

func TestNew(t *testing.T) {
	bm := New(30, 20)
	require.Equal(t, 30, bm.Width())
	require.Equal(t, 20, bm.Height())
	assert.False(t, bm.Get(0, 0))
	assert.False(t, bm.Get(29, 19))

	assert.True(t, New(0, 10).Empty())
	assert.True(t, New(10, -1).Empty())
}

func TestGrayRoundTrip(t *testing.T) {
	bm := FromImage(grayWithBlackRect(40, 40, image.Rect(5, 5, 15, 15)))
	img := bm.Gray()
	require.Equal(t, image.Rect(0, 0, 40, 40), img.Bounds())

	assert.Equal(t, uint8(0), img.GrayAt(10, 10).Y)
	assert.Equal(t, uint8(255), img.GrayAt(30, 30).Y)

	// A cropped view renders only its own rectangle.
	crop := bm.Crop(5, 5, 10, 10).Gray()
	require.Equal(t, image.Rect(0, 0, 10, 10), crop.Bounds())
	assert.Equal(t, uint8(0), crop.GrayAt(0, 0).Y)
}
