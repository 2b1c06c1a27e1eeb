package multi

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/decode"
	"github.com/MeKo-Tech/barscan/internal/symbol"
	"github.com/MeKo-Tech/barscan/internal/testutil"
)

func TestDecodeMultipleParallelFindsSameSet(t *testing.T) {
	center := symbol.NewResult("center", nil, 0, symbol.FormatQR,
		[]*symbol.Point{{X: 400, Y: 450}, {X: 550, Y: 600}})
	reader := regionReader(map[[2]int]*symbol.Result{
		{1000, 1000}: center,
		{400, 1000}:  symbol.NewResult("left", nil, 0, symbol.FormatQR, nil),
		{1000, 450}:  symbol.NewResult("above", nil, 0, symbol.FormatQR, nil),
		{450, 1000}:  symbol.NewResult("right", nil, 0, symbol.FormatQR, []*symbol.Point{{X: 5, Y: 5}}),
		{1000, 400}:  symbol.NewResult("below", nil, 0, symbol.FormatQR, nil),
	})
	locator := New(reader)

	results, err := locator.DecodeMultipleParallel(context.Background(), bitmap.New(1000, 1000), nil, 4)
	require.NoError(t, err)
	require.Len(t, results, 5)

	texts := make([]string, 0, len(results))
	var right *symbol.Result
	for _, r := range results {
		texts = append(texts, r.Text)
		if r.Text == "right" {
			right = r
		}
	}
	sort.Strings(texts)
	assert.Equal(t, []string{"above", "below", "center", "left", "right"}, texts)

	// Translation must hold regardless of which worker accepted the result.
	require.NotNil(t, right)
	require.Len(t, right.Points, 1)
	assert.InDelta(t, 555.0, right.Points[0].X, 0.0001)
}

func TestDecodeMultipleParallelDeduplicates(t *testing.T) {
	var calls atomic.Int64
	reader := decode.ReaderFunc(func(bm *bitmap.Bitmap, _ *decode.Options) (*symbol.Result, error) {
		calls.Add(1)
		pts := []*symbol.Point{{X: 50, Y: 50}, {X: 100, Y: float64(bm.Height() - 50)}}
		return symbol.NewResult("sym", nil, 0, symbol.FormatQR, pts), nil
	})
	locator := New(reader)

	results, err := locator.DecodeMultipleParallel(context.Background(), bitmap.New(1000, 1000), nil, 4)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(5), calls.Load(), "depth guard must bound the parallel search too")
}

func TestDecodeMultipleParallelNotFound(t *testing.T) {
	locator := New(testutil.FailingReader())

	results, err := locator.DecodeMultipleParallel(context.Background(), bitmap.New(600, 600), nil, 4)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, decode.ErrNotFound)
}

func TestDecodeMultipleParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	locator := New(testutil.FailingReader())
	_, err := locator.DecodeMultipleParallel(ctx, bitmap.New(600, 600), nil, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeMultipleParallelSingleWorkerKeepsOrder(t *testing.T) {
	center := symbol.NewResult("center", nil, 0, symbol.FormatQR,
		[]*symbol.Point{{X: 400, Y: 450}, {X: 550, Y: 600}})
	reader := regionReader(map[[2]int]*symbol.Result{
		{1000, 1000}: center,
		{400, 1000}:  symbol.NewResult("left", nil, 0, symbol.FormatQR, nil),
		{1000, 450}:  symbol.NewResult("above", nil, 0, symbol.FormatQR, nil),
	})
	locator := New(reader)

	// workers == 1 falls back to the canonical sequential search.
	results, err := locator.DecodeMultipleParallel(context.Background(), bitmap.New(1000, 1000), nil, 1)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "center", results[0].Text)
	assert.Equal(t, "left", results[1].Text)
	assert.Equal(t, "above", results[2].Text)
}
