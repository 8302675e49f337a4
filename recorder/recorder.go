// Package recorder renders a shader at a fixed timestep and streams the
// frames to a video encoder.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
)

// Frame is one rendered frame ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Source renders and reads back frames.
type Source interface {
	// RenderFrame renders the frame shown t seconds after activation.
	RenderFrame(t float64)
	// ReadFrame returns the last rendered frame as tightly packed RGBA.
	ReadFrame(buf []byte) ([]byte, error)
}

// Encoder consumes frames until the channel is closed.
type Encoder interface {
	Encode(frames <-chan *Frame) error
}

type Settings struct {
	Duration float64
	FPS      int
}

// Frames returns the number of frames a recording produces.
func (s Settings) Frames() int {
	return int(math.Round(s.Duration * float64(s.FPS)))
}

const frameQueue = 3

// Record is the producer: it renders every frame on the calling goroutine
// (which must own the GL context) and hands them to enc on its own goroutine.
func Record(ctx context.Context, src Source, enc Encoder, s Settings) error {
	if s.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", s.FPS)
	}

	frameChan := make(chan *Frame, frameQueue)
	encoderDone := make(chan error, 1)
	go func() {
		encoderDone <- enc.Encode(frameChan)
	}()

	totalFrames := s.Frames()
	timeStep := 1.0 / float64(s.FPS)
	log.Printf("Recording %d frames at %d fps...", totalFrames, s.FPS)

	var produceErr error
produce:
	for i := 0; i < totalFrames; i++ {
		src.RenderFrame(float64(i) * timeStep)
		pixels, err := src.ReadFrame(nil)
		if err != nil {
			produceErr = fmt.Errorf("failed to read frame %d: %w", i, err)
			break
		}

		select {
		case frameChan <- &Frame{Pixels: pixels, PTS: int64(i)}:
		case <-ctx.Done():
			produceErr = ctx.Err()
			break produce
		case err := <-encoderDone:
			// The encoder stopped early; nothing is reading the channel anymore.
			if err == nil {
				err = errors.New("encoder exited before the last frame")
			}
			close(frameChan)
			return err
		}
	}

	close(frameChan)
	encodeErr := <-encoderDone
	if produceErr != nil {
		return produceErr
	}
	return encodeErr
}
