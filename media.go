package frost

import (
	"fmt"
	"io"
	"sync"

	// Register the codecs LoadMedia accepts.
	_ "image/jpeg"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// MediaSource supplies the background frame the pipeline renders behind the
// frost layer. Still images return the same frame every tick; video-like
// sources report Dynamic() true and may return an updated frame each tick,
// which also disables idle throttling.
type MediaSource interface {
	// Frame returns the current renderable frame. Must not return nil once
	// the source has been accepted by the pipeline.
	Frame() *ebiten.Image
	// Size returns the media's native pixel resolution, used for cover-fit.
	Size() (int, int)
	// Dynamic reports whether the frame content changes between ticks.
	Dynamic() bool
	// Dispose releases resources owned by the source. Called by the pipeline
	// when the source is superseded or the pipeline is torn down.
	Dispose()
}

// ImageSource is a MediaSource backed by a single still image. The source
// takes ownership of the image: Dispose deallocates it.
type ImageSource struct {
	image *ebiten.Image
}

// NewImageSource wraps a decoded still image as a MediaSource.
func NewImageSource(img *ebiten.Image) *ImageSource {
	return &ImageSource{image: img}
}

// Frame returns the wrapped image.
func (s *ImageSource) Frame() *ebiten.Image { return s.image }

// Size returns the image's pixel dimensions.
func (s *ImageSource) Size() (int, int) {
	b := s.image.Bounds()
	return b.Dx(), b.Dy()
}

// Dynamic returns false; a still image never changes between ticks.
func (s *ImageSource) Dynamic() bool { return false }

// Dispose deallocates the wrapped image. Safe to call more than once.
func (s *ImageSource) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}

// FuncSource is a MediaSource whose frame is produced by a callback each
// tick, e.g. a video decoder writing into a reused texture. The callback
// owner retains ownership of the frames; Dispose is a no-op.
type FuncSource struct {
	// FrameFunc returns the current frame. Called once per tick.
	FrameFunc func() *ebiten.Image
	// Width and Height are the media's native resolution.
	Width, Height int
}

// Frame invokes FrameFunc.
func (s *FuncSource) Frame() *ebiten.Image { return s.FrameFunc() }

// Size returns the declared native resolution.
func (s *FuncSource) Size() (int, int) { return s.Width, s.Height }

// Dynamic returns true; the pipeline re-prepares the background every tick.
func (s *FuncSource) Dynamic() bool { return true }

// Dispose is a no-op; FrameFunc's owner manages the frame images.
func (s *FuncSource) Dispose() {}

// decodeImageSource reads and decodes an encoded image (PNG, JPEG, ...) into
// an ImageSource. Runs on loader goroutines; ebiten image creation is safe
// off the main goroutine.
func decodeImageSource(r io.Reader) (*ImageSource, error) {
	img, _, err := ebitenutil.NewImageFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}
	return NewImageSource(img), nil
}

// mediaResult is the outcome of one asynchronous load, stamped with the
// request id it belongs to. Exactly one of src and err is set.
type mediaResult struct {
	id  uint64
	src MediaSource
	err error
}

// mediaInbox carries load results from loader goroutines to the tick loop.
// Results are only ever applied at the single drain point at the start of a
// tick, guarded there by request-id comparison, so loader goroutines never
// touch live pipeline state.
type mediaInbox struct {
	mu      sync.Mutex
	closed  bool
	pending []mediaResult
}

// post enqueues a result. Safe for concurrent use. After close, nothing will
// drain the queue again, so the result's resource is disposed immediately
// instead of enqueued.
func (in *mediaInbox) post(r mediaResult) {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		if r.src != nil {
			r.src.Dispose()
		}
		return
	}
	in.pending = append(in.pending, r)
	in.mu.Unlock()
}

// drain invokes fn for each queued result in arrival order and empties the
// queue. Called once per tick from the pipeline goroutine.
func (in *mediaInbox) drain(fn func(mediaResult)) {
	in.mu.Lock()
	if len(in.pending) == 0 {
		in.mu.Unlock()
		return
	}
	batch := in.pending
	in.pending = nil
	in.mu.Unlock()
	for _, r := range batch {
		fn(r)
	}
}

// close drains any queued results through fn and rejects all future posts.
// Called once, from Dispose.
func (in *mediaInbox) close(fn func(mediaResult)) {
	in.mu.Lock()
	in.closed = true
	batch := in.pending
	in.pending = nil
	in.mu.Unlock()
	for _, r := range batch {
		fn(r)
	}
}
