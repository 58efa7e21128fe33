package encoder

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/richinsley/noisebox/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

func testOptions(t *testing.T, args ...string) *options.Options {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := options.Register(fs, "http://localhost/noise.glsl")
	if err := fs.Parse(append([]string{"-width", "4", "-height", "2", "-fps", "30"}, args...)); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestNewFFmpegEncoderValidates(t *testing.T) {
	if _, err := NewFFmpegEncoder(testOptions(t, "-width", "0")); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := NewFFmpegEncoder(testOptions(t, "-fps", "0")); err == nil {
		t.Fatal("expected error for zero fps")
	}
}

func TestGetArgs(t *testing.T) {
	e, err := NewFFmpegEncoder(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	in, out := e.getArgs()
	if in["f"] != "rawvideo" || in["pix_fmt"] != "rgba" || in["s"] != "4x2" || in["framerate"] != 30 {
		t.Fatalf("unexpected input args: %v", in)
	}
	if out["vf"] != "vflip" || out["c:v"] != "libx264" || out["pix_fmt"] != "yuv420p" {
		t.Fatalf("unexpected output args: %v", out)
	}

	e, _ = NewFFmpegEncoder(testOptions(t, "-output", "clip.webm"))
	if _, out := e.getArgs(); out["c:v"] != "libvpx-vp9" {
		t.Fatalf("webm output should use vp9, got %v", out["c:v"])
	}
}

func TestFramesArePipedInOrder(t *testing.T) {
	e, err := NewFFmpegEncoder(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	var got bytes.Buffer
	e.run = func(cmd *ffmpeg.Stream, input io.Reader) error {
		_, err := io.Copy(&got, input)
		return err
	}
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	var want bytes.Buffer
	for i := 0; i < 3; i++ {
		px := bytes.Repeat([]byte{byte(i + 1)}, 4*2*4)
		want.Write(px)
		e.Frames() <- &Frame{Pixels: px, PTS: int64(i)}
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Bytes(), want.Bytes()) {
		t.Fatalf("piped %d bytes, want %d in frame order", got.Len(), want.Len())
	}
}

func TestWrongFrameSize(t *testing.T) {
	e, err := NewFFmpegEncoder(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	e.run = func(cmd *ffmpeg.Stream, input io.Reader) error {
		io.Copy(io.Discard, input)
		return nil
	}
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	e.Frames() <- &Frame{Pixels: []byte{1, 2, 3}}
	e.Frames() <- &Frame{Pixels: make([]byte, 32), PTS: 1}
	if err := e.Close(); err == nil {
		t.Fatal("expected an error for a short frame")
	}
}

func TestFFmpegFailure(t *testing.T) {
	e, err := NewFFmpegEncoder(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("ffmpeg not found")
	e.run = func(cmd *ffmpeg.Stream, input io.Reader) error {
		return boom
	}
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		e.Frames() <- &Frame{Pixels: make([]byte, 32), PTS: int64(i)}
	}
	if err := e.Close(); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestCloseWithoutStart(t *testing.T) {
	e, err := NewFFmpegEncoder(testOptions(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
}
