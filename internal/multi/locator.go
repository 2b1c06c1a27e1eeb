// Package multi locates multiple barcode symbols in an image by repeatedly
// decoding shrinking sub-regions. After one symbol is found, the strips
// left, above, right and below its localization points are searched in
// turn, recursively, with every accepted result translated back into the
// coordinate space of the original image.
package multi

import (
	"log/slog"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/decode"
	"github.com/MeKo-Tech/barscan/internal/symbol"
)

const (
	// maxDepth bounds the recursive search; frames deeper than this are
	// discarded before the decoder is invoked.
	maxDepth = 4

	// minDimensionToRecur is the smallest strip dimension worth searching.
	minDimensionToRecur = 100
)

// searchFrame is one pending region of the search: a view plus the
// displacement of its origin from the top-level image, and its depth in
// the search tree (root = 0).
type searchFrame struct {
	view    *bitmap.Bitmap
	xOffset int
	yOffset int
	depth   int
}

// Locator drives a single-symbol reader over sub-regions of an image to
// find every symbol present. It depends only on the decode.Reader
// contract, so any decoder family can sit behind it.
type Locator struct {
	reader decode.Reader
}

// New returns a Locator over the given single-symbol reader.
func New(reader decode.Reader) *Locator {
	return &Locator{reader: reader}
}

// DecodeMultiple searches bm without hints. See DecodeMultipleWithOptions.
func (l *Locator) DecodeMultiple(bm *bitmap.Bitmap) ([]*symbol.Result, error) {
	return l.DecodeMultipleWithOptions(bm, nil)
}

// DecodeMultipleWithOptions searches bm for every decodable symbol,
// forwarding opts unchanged to the reader. Results come back in depth-first
// discovery order, deduplicated by payload text, with all localization
// points expressed in bm's coordinate space; callers must not mutate the
// returned slice. If nothing decodes anywhere, the error is
// decode.ErrNotFound.
func (l *Locator) DecodeMultipleWithOptions(bm *bitmap.Bitmap, opts *decode.Options) ([]*symbol.Result, error) {
	var results []*symbol.Result

	// Explicit work-list instead of host recursion. Children are pushed
	// in reverse so pops walk left, above, right, below, reproducing
	// depth-first pre-order exactly.
	stack := []searchFrame{{view: bm}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		result, children := l.decodeFrame(frame, opts)
		if result != nil && !containsText(results, result.Text) {
			results = append(results, translateResultPoints(result, frame.xOffset, frame.yOffset))
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	if len(results) == 0 {
		return nil, decode.ErrNotFound
	}
	return results, nil
}

// decodeFrame runs the decoder on one frame. It returns the raw (still
// untranslated) result, nil when the region is unreadable or the depth
// guard fires, and the child frames to search next in left, above, right,
// below order. A result that turns out to be a duplicate still yields its
// children; only its entry is suppressed, by the caller.
func (l *Locator) decodeFrame(frame searchFrame, opts *decode.Options) (*symbol.Result, []searchFrame) {
	if frame.depth > maxDepth {
		return nil, nil
	}

	result, err := l.reader.Decode(frame.view, opts)
	if err != nil {
		// Unreadable region: prune this subtree silently.
		slog.Debug("region unreadable",
			"xOffset", frame.xOffset, "yOffset", frame.yOffset, "depth", frame.depth)
		return nil, nil
	}

	// Without localization points there is no geometry to partition the
	// remaining space.
	points := result.Points
	if len(points) == 0 {
		return result, nil
	}

	width := frame.view.Width()
	height := frame.view.Height()
	minX := float64(width)
	minY := float64(height)
	maxX := 0.0
	maxY := 0.0
	present := 0
	for _, p := range points {
		if p == nil {
			continue
		}
		present++
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if present == 0 {
		// All landmarks undetermined: the box is degenerate and bounds
		// nothing.
		return result, nil
	}

	// Full strips along each side of the bounding box, not a quadrant
	// partition; overlap at the corners trades bounded repeated work for
	// recall on symbols adjacent to this one.
	var children []searchFrame
	if minX > minDimensionToRecur {
		children = append(children, searchFrame{
			view:    frame.view.Crop(0, 0, int(minX), height),
			xOffset: frame.xOffset,
			yOffset: frame.yOffset,
			depth:   frame.depth + 1,
		})
	}
	if minY > minDimensionToRecur {
		children = append(children, searchFrame{
			view:    frame.view.Crop(0, 0, width, int(minY)),
			xOffset: frame.xOffset,
			yOffset: frame.yOffset,
			depth:   frame.depth + 1,
		})
	}
	if maxX < float64(width-minDimensionToRecur) {
		children = append(children, searchFrame{
			view:    frame.view.Crop(int(maxX), 0, width-int(maxX), height),
			xOffset: frame.xOffset + int(maxX),
			yOffset: frame.yOffset,
			depth:   frame.depth + 1,
		})
	}
	if maxY < float64(height-minDimensionToRecur) {
		children = append(children, searchFrame{
			view:    frame.view.Crop(0, int(maxY), width, height-int(maxY)),
			xOffset: frame.xOffset,
			yOffset: frame.yOffset + int(maxY),
			depth:   frame.depth + 1,
		})
	}
	return result, children
}

func containsText(results []*symbol.Result, text string) bool {
	for _, r := range results {
		if r.Text == text {
			return true
		}
	}
	return false
}

// translateResultPoints derives a copy of result whose localization points
// are shifted into the top-level image's coordinate space. Absent (nil)
// points stay absent in place; every other field is carried over unchanged.
func translateResultPoints(result *symbol.Result, xOffset, yOffset int) *symbol.Result {
	if result.Points == nil {
		return result
	}
	points := make([]*symbol.Point, len(result.Points))
	for i, p := range result.Points {
		if p != nil {
			points[i] = &symbol.Point{X: p.X + float64(xOffset), Y: p.Y + float64(yOffset)}
		}
	}
	return result.WithPoints(points)
}
