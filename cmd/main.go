package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	api "github.com/richinsley/noisebox/api"
	app "github.com/richinsley/noisebox/app"
	encoder "github.com/richinsley/noisebox/encoder"
	"github.com/richinsley/noisebox/glfwcontext"
	"github.com/richinsley/noisebox/loop"
	options "github.com/richinsley/noisebox/options"
	renderer "github.com/richinsley/noisebox/renderer"
)

func runInteractive(ctx context.Context, opts *options.Options, noise *api.NoiseClient) error {
	glctx, err := glfwcontext.New(opts, true)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer glctx.Shutdown()

	r, err := renderer.NewRenderer(glctx, *opts.Width, *opts.Height, false)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	a := app.New(r, *opts.Layers)
	defer a.Close()

	glctx.OnCursorMove(func(x, y float64) {
		width, _ := glctx.GetWindowSize()
		a.HandleMouseMove(x, float64(width))
	})
	glctx.OnResize(a.HandleResize)

	fbWidth, fbHeight := glctx.GetFramebufferSize()
	log.Println("Starting interactive render loop...")
	return a.Start(ctx, noise, glctx, glctx, fbWidth, fbHeight)
}

func runRecord(ctx context.Context, opts *options.Options, noise *api.NoiseClient) error {
	// The window stays hidden; frames go to an offscreen framebuffer.
	glctx, err := glfwcontext.New(opts, false)
	if err != nil {
		return fmt.Errorf("failed to create hidden window: %w", err)
	}
	defer glctx.Shutdown()

	r, err := renderer.NewRenderer(glctx, *opts.Width, *opts.Height, true)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	enc, err := encoder.NewFFmpegEncoder(opts)
	if err != nil {
		return err
	}

	capture := func(frame int64) error {
		pixels, err := r.ReadFrame()
		if err != nil {
			return err
		}
		enc.Frames() <- &encoder.Frame{Pixels: pixels, PTS: frame}
		return nil
	}
	a := app.New(r, *opts.Layers, app.WithAfterFrame(capture))
	defer a.Close()

	if err := a.Setup(ctx, noise); err != nil {
		return err
	}
	a.Resize(*opts.Width, *opts.Height)

	if err := enc.Start(); err != nil {
		return err
	}
	frames := opts.FrameCount()
	log.Printf("Recording %d frames...", frames)
	l := loop.New(loop.NewFixedTicks(frames), loop.NewFrameClock(*opts.FPS), a.Frame)
	runErr := l.Run(ctx)
	if err := enc.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine, api.DefaultNoiseURL)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Layered noise box viewer/recorder")
		flag.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	noise := api.NewNoiseClient(*opts.NoiseURL)
	log.Printf("Fetching noise shader from %s", noise.URL())

	var err error
	if *opts.Record {
		err = runRecord(ctx, opts, noise)
		if err == nil {
			log.Printf("Successfully rendered to %s", *opts.OutputFile)
		}
	} else {
		err = runInteractive(ctx, opts, noise)
	}
	if errors.Is(err, context.Canceled) {
		log.Println("Interrupted")
		return
	}
	if err != nil {
		// log.Fatalf would skip the deferred GLFW teardown.
		log.Printf("Error: %v", err)
		glfwcontext.TerminateGraphics()
		os.Exit(1)
	}
}
