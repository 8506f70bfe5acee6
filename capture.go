package frost

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultCaptureDir is where composited frame captures are written unless
// [Pipeline.SetCaptureDir] overrides it.
const DefaultCaptureDir = "captures"

// captureQueue collects labeled frame-capture requests and flushes them at
// the end of Draw, after the composite pass has run.
type captureQueue struct {
	dir    string
	labels []string
}

// Capture queues a labeled capture of the next composited frame. The
// resulting PNG is written to the capture directory with a timestamped
// filename. Safe to call from Update or Draw.
func (p *Pipeline) Capture(label string) {
	p.captures.labels = append(p.captures.labels, label)
}

// SetCaptureDir overrides the directory frame captures are written to.
func (p *Pipeline) SetCaptureDir(dir string) {
	p.captures.dir = dir
}

// flush reads back the rendered frame for every queued label and writes each
// as a PNG file. Called at the end of Pipeline.Draw.
func (q *captureQueue) flush(frame *ebiten.Image) {
	if len(q.labels) == 0 {
		return
	}
	dir := q.dir
	if dir == "" {
		dir = DefaultCaptureDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger().Warn("frost: capture mkdir failed", "dir", dir, "err", err)
		q.labels = q.labels[:0]
		return
	}

	bounds := frame.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	frame.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range q.labels {
		path := fmt.Sprintf("%s/%s_%s.png", dir, stamp, sanitizeLabel(label))
		if err := writePNG(path, img); err != nil {
			logger().Warn("frost: capture failed", "path", path, "err", err)
		}
	}
	q.labels = q.labels[:0]
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces filesystem-hostile characters so any label is a
// safe filename component.
func sanitizeLabel(label string) string {
	if label == "" {
		return "frame"
	}
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
