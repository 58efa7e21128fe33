package encoder

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/richinsley/noisebox/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame represents a single rendered video frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// frameQueue is the number of frames buffered between renderer and ffmpeg.
const frameQueue = 5

// runFunc executes the ffmpeg command; input is the pipe the command reads.
type runFunc func(cmd *ffmpeg.Stream, input io.Reader) error

func runFFmpeg(cmd *ffmpeg.Stream, _ io.Reader) error {
	return cmd.Run()
}

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg process.
type FFmpegEncoder struct {
	opts      *options.Options
	frameSize int
	run       runFunc

	videoFrames chan *Frame
	done        chan error
	started     bool
}

func NewFFmpegEncoder(opts *options.Options) (*FFmpegEncoder, error) {
	if *opts.Width <= 0 || *opts.Height <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", *opts.Width, *opts.Height)
	}
	if *opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", *opts.FPS)
	}
	return &FFmpegEncoder{
		opts:        opts,
		frameSize:   *opts.Width * *opts.Height * 4,
		run:         runFFmpeg,
		videoFrames: make(chan *Frame, frameQueue),
		done:        make(chan error, 1),
	}, nil
}

// getArgs builds the ffmpeg arguments. Frames arrive bottom row first, as
// read back from OpenGL, so the output is flipped vertically.
func (e *FFmpegEncoder) getArgs() (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", *e.opts.Width, *e.opts.Height),
		"framerate": *e.opts.FPS,
	}
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"r":       *e.opts.FPS,
	}
	if strings.HasSuffix(*e.opts.OutputFile, ".webm") {
		outputArgs["c:v"] = "libvpx-vp9"
	}
	return
}

// Start launches ffmpeg and the goroutine feeding it.
func (e *FFmpegEncoder) Start() error {
	if e.started {
		return fmt.Errorf("encoder already started")
	}
	e.started = true

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := e.getArgs()
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(*e.opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if *e.opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(*e.opts.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := e.run(ffmpegCmd, pipeReader)
		// Unblock the writer if ffmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	go e.consume(pipeWriter, errc)
	log.Printf("Encoding %dx%d @ %d fps to %s", *e.opts.Width, *e.opts.Height, *e.opts.FPS, *e.opts.OutputFile)
	return nil
}

// consume writes frames until the channel is closed. After a write error the
// remaining frames are drained so the producer never blocks.
func (e *FFmpegEncoder) consume(w *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for frame := range e.videoFrames {
		if writeErr != nil {
			continue
		}
		if len(frame.Pixels) != e.frameSize {
			writeErr = fmt.Errorf("frame %d has %d bytes, want %d", frame.PTS, len(frame.Pixels), e.frameSize)
			w.CloseWithError(writeErr)
			continue
		}
		if _, err := w.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
			log.Println(writeErr)
		}
	}
	w.Close()

	runErr := <-errc
	switch {
	case runErr != nil:
		e.done <- fmt.Errorf("ffmpeg failed: %w", runErr)
	default:
		e.done <- writeErr
	}
}

// Frames is where the renderer sends frames. Do not send after Close.
func (e *FFmpegEncoder) Frames() chan<- *Frame {
	return e.videoFrames
}

// Close flushes pending frames and waits for ffmpeg to exit.
func (e *FFmpegEncoder) Close() error {
	if !e.started {
		return nil
	}
	close(e.videoFrames)
	return <-e.done
}
