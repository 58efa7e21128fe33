package loop

// FixedTicks yields a fixed number of ticks without waiting. It backs
// offscreen recording and deterministic tests.
type FixedTicks struct {
	remaining int
}

func NewFixedTicks(n int) *FixedTicks {
	return &FixedTicks{remaining: n}
}

func (f *FixedTicks) Next() bool {
	if f.remaining <= 0 {
		return false
	}
	f.remaining--
	return true
}

// FrameClock derives elapsed time from a frame counter at a fixed rate, so a
// recording is independent of how long each frame took to render. Each read
// advances the counter by one frame.
type FrameClock struct {
	fps   float64
	frame int64
}

func NewFrameClock(fps int) *FrameClock {
	if fps <= 0 {
		fps = 60
	}
	return &FrameClock{fps: float64(fps)}
}

func (c *FrameClock) Elapsed() float64 {
	t := float64(c.frame) / c.fps
	c.frame++
	return t
}
