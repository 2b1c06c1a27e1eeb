package multi

import (
	"context"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/barscan/internal/bitmap"
	"github.com/MeKo-Tech/barscan/internal/decode"
	"github.com/MeKo-Tech/barscan/internal/symbol"
)

// frameQueue is a work-list of search frames shared by a worker pool.
// pending counts frames that are queued or being processed, so workers can
// tell "momentarily empty" apart from "search exhausted".
type frameQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	frames  []searchFrame
	pending int
	stopped bool
}

func newFrameQueue() *frameQueue {
	q := &frameQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *frameQueue) push(f searchFrame) {
	q.mu.Lock()
	q.frames = append(q.frames, f)
	q.pending++
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until a frame is available or the search is exhausted or
// stopped. The popped frame stays pending until done is called for it.
func (q *frameQueue) pop() (searchFrame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.frames) == 0 && q.pending > 0 && !q.stopped {
		q.cond.Wait()
	}
	if q.stopped || len(q.frames) == 0 {
		return searchFrame{}, false
	}
	f := q.frames[len(q.frames)-1]
	q.frames = q.frames[:len(q.frames)-1]
	return f, true
}

func (q *frameQueue) done() {
	q.mu.Lock()
	q.pending--
	finished := q.pending == 0
	q.mu.Unlock()
	if finished {
		q.cond.Broadcast()
	}
}

func (q *frameQueue) stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// DecodeMultipleParallel searches bm like DecodeMultipleWithOptions but
// explores the directional strips concurrently with a pool of workers
// (workers <= 0 means runtime.NumCPU()). The directional searches are
// independent once a bounding box is known, so this only changes ordering:
// results arrive in nondeterministic discovery order, with deduplication
// resolved first-accepted-wins. Callers that depend on the deterministic
// depth-first order must use the sequential entry points. The context
// cancels dispatch between frames; an in-flight decode still runs to
// completion.
func (l *Locator) DecodeMultipleParallel(ctx context.Context, bm *bitmap.Bitmap, opts *decode.Options, workers int) ([]*symbol.Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 {
		return l.DecodeMultipleWithOptions(bm, opts)
	}

	q := newFrameQueue()
	q.push(searchFrame{view: bm})

	var mu sync.Mutex
	var results []*symbol.Result

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				frame, ok := q.pop()
				if !ok {
					return
				}
				if ctx.Err() != nil {
					q.stop()
					return
				}

				result, children := l.decodeFrame(frame, opts)
				if result != nil {
					// Check-and-insert must be atomic to keep
					// first-accepted-wins deduplication.
					mu.Lock()
					if !containsText(results, result.Text) {
						results = append(results, translateResultPoints(result, frame.xOffset, frame.yOffset))
					}
					mu.Unlock()
				}
				for _, child := range children {
					q.push(child)
				}
				q.done()
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, decode.ErrNotFound
	}
	return results, nil
}
