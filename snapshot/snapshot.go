package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Resolution is an export size. Zero width and height mean the current surface size.
type Resolution struct {
	Label  string
	Width  int
	Height int
}

// Resolutions is the export menu, in display order.
var Resolutions = []Resolution{
	{Label: "Native", Width: 0, Height: 0},
	{Label: "1080p", Width: 1920, Height: 1080},
	{Label: "4K", Width: 3840, Height: 2160},
}

// Filename returns "<shader>_<timestamp>.png" with ':' and '.' in the
// ISO 8601 timestamp replaced by '-'.
func Filename(shader string, t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return shader + "_" + stamp + ".png"
}

// Renderer is the surface being captured.
type Renderer interface {
	Size() (width, height int)
	PixelRatio() float64
	SetPixelRatio(ratio float64)
	SetSize(width, height int)
	// DrawingBufferSize is Size scaled by PixelRatio.
	DrawingBufferSize() (width, height int)
	// ReadPixels returns the last rendered output.
	ReadPixels() (*image.RGBA, error)
}

// Pipeline renders frames into the renderer's output.
type Pipeline interface {
	Resize(width, height int)
	Render()
}

// Sink stores an encoded image.
type Sink interface {
	Save(name string, data []byte) error
}

// Exporter captures one frame at a chosen resolution.
type Exporter struct {
	Renderer Renderer
	Pipeline Pipeline
	Sink     Sink
	// Refresh, if set, is called with the capture size before rendering so
	// the resolution uniform matches the temporary surface.
	Refresh func(width, height int)
	// Now defaults to time.Now.
	Now func() time.Time
}

// Export renders the current frame at res and saves it as a PNG named after
// shader. The surface is restored before Export returns; encoding and saving
// finish asynchronously and report on the returned channel.
//
// Export must run on the render thread. Nothing prevents a second export or a
// resize from overlapping the encoding of a first one.
func (e *Exporter) Export(shader string, res Resolution) <-chan error {
	done := make(chan error, 1)

	origW, origH := e.Renderer.Size()
	origRatio := e.Renderer.PixelRatio()

	targetW, targetH := res.Width, res.Height
	if targetW == 0 || targetH == 0 {
		targetW, targetH = origW, origH
	}

	e.Renderer.SetPixelRatio(1)
	e.Renderer.SetSize(targetW, targetH)
	e.Pipeline.Resize(targetW, targetH)
	if e.Refresh != nil {
		e.Refresh(targetW, targetH)
	}
	e.Pipeline.Render()
	img, readErr := e.Renderer.ReadPixels()

	e.Renderer.SetPixelRatio(origRatio)
	e.Renderer.SetSize(origW, origH)
	bufW, bufH := e.Renderer.DrawingBufferSize()
	e.Pipeline.Resize(bufW, bufH)
	if e.Refresh != nil {
		e.Refresh(bufW, bufH)
	}

	if readErr != nil {
		done <- fmt.Errorf("failed to read snapshot pixels: %w", readErr)
		close(done)
		return done
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	name := Filename(shader, now())

	go func() {
		defer close(done)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			done <- fmt.Errorf("failed to encode snapshot: %w", err)
			return
		}
		if err := e.Sink.Save(name, buf.Bytes()); err != nil {
			done <- fmt.Errorf("failed to save snapshot %s: %w", name, err)
			return
		}
		log.Printf("Saved snapshot %s (%dx%d)", name, targetW, targetH)
		done <- nil
	}()
	return done
}

// DirSink writes snapshots into a directory, creating it on first use.
type DirSink struct {
	Dir string
}

func (d DirSink) Save(name string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return os.WriteFile(filepath.Join(d.Dir, name), data, 0644)
}
