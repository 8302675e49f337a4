package recorder

import (
	"fmt"
	"io"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpeg encodes raw RGBA frames with an ffmpeg process.
type FFmpeg struct {
	Width  int
	Height int
	FPS    int
	Output string
	// Path to the ffmpeg executable, empty to search PATH.
	Path string
}

// Args returns the ffmpeg input and output arguments. Frames arrive bottom
// row first, so the output is flipped vertically.
func (f *FFmpeg) Args() (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", f.Width, f.Height),
		"framerate": strconv.Itoa(f.FPS),
	}
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}
	return
}

// Encode is the consumer. It writes every frame to ffmpeg's stdin and waits
// for the process to exit.
func (f *FFmpeg) Encode(frames <-chan *Frame) error {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := f.Args()

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(f.Output, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if f.Path != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(f.Path)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock the writer if ffmpeg quits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	frameSize := f.Width * f.Height * 4
	var writeErr error
	for frame := range frames {
		if writeErr != nil {
			continue
		}
		if len(frame.Pixels) != frameSize {
			writeErr = fmt.Errorf("frame %d is %d bytes, want %d", frame.PTS, len(frame.Pixels), frameSize)
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return writeErr
}
