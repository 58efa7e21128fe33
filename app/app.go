// Package app holds the state of the running scene and the handlers that
// mutate it: mouse orbit, debounced resize and the per-frame update.
package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/richinsley/noisebox/debounce"
	"github.com/richinsley/noisebox/loop"
	"github.com/richinsley/noisebox/scene"
	"github.com/richinsley/noisebox/shader"
)

// ResizeDelay coalesces bursts of resize events.
const ResizeDelay = 100 * time.Millisecond

// Surface is the output the scene is drawn to.
type Surface interface {
	// SetSize resizes the output to the viewport's pixel dimensions.
	SetSize(width, height int)
	// Load prepares the GPU resources of a freshly assembled box.
	Load(box *scene.Box) error
	Render(s *scene.Scene, camera *scene.Camera) error
}

type size struct {
	width, height int
}

type Option func(*App)

// WithAfterFunc replaces the timer source of the resize debouncer.
func WithAfterFunc(f debounce.AfterFunc) Option {
	return func(a *App) {
		a.afterFunc = f
	}
}

// WithAfterFrame registers a hook run after every rendered frame, e.g. to
// capture it.
func WithAfterFrame(f func(frame int64) error) Option {
	return func(a *App) {
		a.afterFrame = f
	}
}

// App is the application context: it owns the scene, camera and uniform set
// and is the only thing the render loop and input handlers touch.
type App struct {
	Scene    *scene.Scene
	Camera   *scene.Camera
	Uniforms *shader.Uniforms

	surface    Surface
	layers     int
	resizer    *debounce.Debouncer[size]
	afterFunc  debounce.AfterFunc
	afterFrame func(frame int64) error
	frame      int64

	mu      sync.Mutex
	pending *size
}

func New(surface Surface, layers int, opts ...Option) *App {
	a := &App{
		Scene:    scene.New(),
		Camera:   scene.NewCamera(),
		Uniforms: shader.NewUniforms(),
		surface:  surface,
		layers:   layers,
	}
	for _, o := range opts {
		o(a)
	}
	var dopts []debounce.Option
	if a.afterFunc != nil {
		dopts = append(dopts, debounce.WithAfterFunc(a.afterFunc))
	}
	a.resizer = debounce.New(ResizeDelay, a.queueResize, dopts...)
	return a
}

// MouseAngle maps a horizontal cursor position to an orbit angle: the full
// width of the viewport is one turn.
func MouseAngle(x, width float64) float32 {
	if width <= 0 {
		return 0
	}
	return float32(x / width * math.Pi * 2)
}

// HandleMouseMove orbits the camera to follow the cursor.
func (a *App) HandleMouseMove(x, width float64) {
	a.Camera.SetAngle(MouseAngle(x, width))
}

// HandleResize schedules a resize. Bursts collapse into one, applied at the
// start of the next frame.
func (a *App) HandleResize(width, height int) {
	a.resizer.Call(size{width, height})
}

// queueResize runs on the debouncer's timer goroutine.
func (a *App) queueResize(s size) {
	a.mu.Lock()
	a.pending = &s
	a.mu.Unlock()
}

func (a *App) takePendingResize() (size, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return size{}, false
	}
	s := *a.pending
	a.pending = nil
	return s, true
}

// Resize applies a viewport size immediately.
func (a *App) Resize(width, height int) {
	if !a.Camera.Resize(width, height) {
		return
	}
	a.surface.SetSize(width, height)
}

// Frame advances the time uniform and draws the scene once.
func (a *App) Frame(elapsed float64) error {
	if s, ok := a.takePendingResize(); ok {
		a.Resize(s.width, s.height)
	}
	a.Uniforms.Time = float32(elapsed)
	if err := a.surface.Render(a.Scene, a.Camera); err != nil {
		return err
	}
	if a.afterFrame != nil {
		if err := a.afterFrame(a.frame); err != nil {
			return err
		}
	}
	a.frame++
	return nil
}

// Setup assembles the box and inserts it into the scene. On failure the scene
// is left without a box.
func (a *App) Setup(ctx context.Context, src scene.NoiseSource) error {
	box, err := scene.AssembleBox(ctx, src, a.Uniforms, a.layers)
	if err != nil {
		return err
	}
	if err := a.surface.Load(box); err != nil {
		return fmt.Errorf("failed to load box: %w", err)
	}
	a.Scene.Attach(box)
	return nil
}

// Start assembles the scene, sizes the viewport and runs the render loop
// until it ends. Errors from assembly are returned before any frame is drawn.
func (a *App) Start(ctx context.Context, src scene.NoiseSource, ticks loop.TickSource, clock loop.Clock, width, height int) error {
	if err := a.Setup(ctx, src); err != nil {
		return err
	}
	a.Resize(width, height)

	log.Println("Starting render loop...")
	l := loop.New(ticks, clock, a.Frame)
	err := l.Run(ctx)
	log.Printf("Render loop stopped after %d frames", l.Frames())
	return err
}

// Close cancels a pending resize.
func (a *App) Close() {
	a.resizer.Stop()
}
