package options

import (
	"flag"
	"fmt"
)

type Options struct {
	NoiseURL   *string
	Width      *int
	Height     *int
	Layers     *int
	Help       *bool
	Record     *bool    // Render offscreen for Duration seconds and encode to OutputFile
	Duration   *float64 // Seconds to record
	FPS        *int
	OutputFile *string
	FFMPEGPath *string // Optional path to the ffmpeg executable
}

// Register declares every option on fs with its default.
func Register(fs *flag.FlagSet, defaultNoiseURL string) *Options {
	return &Options{
		NoiseURL:   fs.String("noise-url", defaultNoiseURL, "URL of the GLSL noise functions"),
		Width:      fs.Int("width", 1280, "Width of the window or output"),
		Height:     fs.Int("height", 720, "Height of the window or output"),
		Layers:     fs.Int("layers", 32, "Number of layers in the box"),
		Help:       fs.Bool("help", false, "Show help message"),
		Record:     fs.Bool("record", false, "Enable recording mode"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
	}
}

func (o *Options) Validate() error {
	if *o.NoiseURL == "" {
		return fmt.Errorf("noise-url must not be empty")
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.Layers <= 0 {
		return fmt.Errorf("layers must be positive, got %d", *o.Layers)
	}
	if *o.Record {
		if *o.FPS <= 0 {
			return fmt.Errorf("fps must be positive, got %d", *o.FPS)
		}
		if *o.Duration <= 0 {
			return fmt.Errorf("duration must be positive, got %v", *o.Duration)
		}
		if *o.OutputFile == "" {
			return fmt.Errorf("output file must be set when recording")
		}
	}
	return nil
}

// FrameCount is the number of frames a recording of Duration at FPS holds.
func (o *Options) FrameCount() int {
	return int(*o.Duration * float64(*o.FPS))
}
