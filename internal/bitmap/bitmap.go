package bitmap

import (
	"image"
	"image/color"
)

// matrix holds packed row-major 1-bit pixel data. It is shared, unmodified,
// by every view derived from the same source image.
type matrix struct {
	width    int
	height   int
	rowWords int
	bits     []uint32
}

func newMatrix(width, height int) *matrix {
	rowWords := (width + 31) / 32
	return &matrix{
		width:    width,
		height:   height,
		rowWords: rowWords,
		bits:     make([]uint32, rowWords*height),
	}
}

func (m *matrix) get(x, y int) bool {
	return m.bits[y*m.rowWords+x/32]&(1<<uint(x%32)) != 0
}

func (m *matrix) set(x, y int) {
	m.bits[y*m.rowWords+x/32] |= 1 << uint(x%32)
}

// Bitmap is a read-only rectangular view onto binarized image data.
// Cropping produces a new view over the same backing matrix; the source
// view and its backing data are never mutated.
type Bitmap struct {
	m      *matrix
	left   int
	top    int
	width  int
	height int
}

// Width returns the width of the view in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the height of the view in pixels.
func (b *Bitmap) Height() int { return b.height }

// Empty reports whether the view has no area.
func (b *Bitmap) Empty() bool { return b.width <= 0 || b.height <= 0 }

// Get reports whether the pixel at (x, y), in view coordinates, is black.
// Out-of-range coordinates are white.
func (b *Bitmap) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return false
	}
	return b.m.get(b.left+x, b.top+y)
}

// Crop returns a new view over the rectangle [x,x+w) x [y,y+h) of this
// view. Crops compose: cropping a crop addresses the original backing data
// with accumulated offsets. Requests reaching outside the view are clamped,
// and a non-positive size yields an empty view rather than an error, since
// dimension differences legitimately collapse to zero at search margins.
func (b *Bitmap) Crop(x, y, w, h int) *Bitmap {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > b.width {
		w = b.width - x
	}
	if y+h > b.height {
		h = b.height - y
	}
	if w <= 0 || h <= 0 || x >= b.width || y >= b.height {
		return &Bitmap{m: b.m}
	}
	return &Bitmap{
		m:      b.m,
		left:   b.left + x,
		top:    b.top + y,
		width:  w,
		height: h,
	}
}

// Gray renders the view into a fresh grayscale image (black pixels 0,
// white 255) for decoder backends operating on image.Image.
func (b *Bitmap) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if !b.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// New returns an all-white bitmap of the given size. Non-positive
// dimensions yield an empty view.
func New(width, height int) *Bitmap {
	if width <= 0 || height <= 0 {
		return &Bitmap{m: newMatrix(0, 0)}
	}
	return &Bitmap{m: newMatrix(width, height), width: width, height: height}
}

// FromImage binarizes an image into a Bitmap using a global mean-luminance
// threshold. Pixels darker than the mean are black. This is a boundary
// convenience for callers holding a decoded image; sophisticated
// binarization belongs upstream.
func FromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return &Bitmap{m: newMatrix(0, 0)}
	}

	lum := make([]uint8, w*h)
	var sum uint64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			lum[y*w+x] = g.Y
			sum += uint64(g.Y)
		}
	}
	threshold := uint8(sum / uint64(w*h))

	m := newMatrix(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if lum[y*w+x] < threshold {
				m.set(x, y)
			}
		}
	}
	return &Bitmap{m: m, width: w, height: h}
}
