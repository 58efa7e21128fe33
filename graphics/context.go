package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	// GetWindowSize returns the window size in screen coordinates, which is
	// what cursor positions are reported in.
	GetWindowSize() (int, int)
	Time() float64
}
