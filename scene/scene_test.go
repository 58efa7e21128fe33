package scene

import (
	"context"
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/noisebox/shader"
)

const tol = 1e-5

type stubSource struct {
	src   string
	err   error
	calls int
}

func (s *stubSource) FetchShader(ctx context.Context) (string, error) {
	s.calls++
	return s.src, s.err
}

func TestNewBoxLayerHeights(t *testing.T) {
	m := shader.NewLayerMaterial("", shader.NewUniforms())
	b := NewBox(m, LayerCount)
	if b.Len() != 32 {
		t.Fatalf("layer count = %d, want 32", b.Len())
	}
	prev := float32(-1)
	for i, l := range b.Layers {
		want := float32(i) / 32
		if l.Height != want {
			t.Errorf("layer %d height = %v, want %v", i, l.Height, want)
		}
		if l.Height <= prev {
			t.Errorf("layer %d height %v not strictly increasing", i, l.Height)
		}
		prev = l.Height
		if l.Material != m {
			t.Errorf("layer %d does not share the box material", i)
		}
	}
	if first, last := b.Layers[0].Height, b.Layers[31].Height; first != 0 || last != 31.0/32 {
		t.Fatalf("heights cover [%v, %v], want [0, 31/32]", first, last)
	}
}

func TestNewBoxDefaultCount(t *testing.T) {
	if n := NewBox(nil, 0).Len(); n != LayerCount {
		t.Fatalf("count = %d, want %d", n, LayerCount)
	}
}

func TestLayerLiesFlatAtHeight(t *testing.T) {
	l := NewLayer(0.25, nil)
	for i, v := range l.WorldVertices() {
		if math32.Abs(v.Y()-0.25) > tol {
			t.Errorf("vertex %d world y = %v, want 0.25", i, v.Y())
		}
		if math32.Abs(math32.Abs(v.X())-0.5) > tol || math32.Abs(math32.Abs(v.Z())-0.5) > tol {
			t.Errorf("vertex %d = %v, want a unit quad corner", i, v)
		}
	}
	c := l.Center()
	if math32.Abs(c.Y()-0.25) > tol || math32.Abs(c.X()) > tol || math32.Abs(c.Z()) > tol {
		t.Fatalf("center = %v, want (0, 0.25, 0)", c)
	}
	tris := l.Triangles()
	for i, v := range tris {
		if v.Z() != 0.25 {
			t.Errorf("triangle vertex %d object z = %v, want 0.25", i, v.Z())
		}
	}
}

func TestDrawOrderBackToFront(t *testing.T) {
	b := NewBox(nil, 8)
	cam := NewCamera()
	order := b.DrawOrder(cam.View())
	if len(order) != 8 {
		t.Fatalf("draw order has %d layers", len(order))
	}
	// The camera sits above the stack, so the lowest layer is the farthest.
	for i := 1; i < len(order); i++ {
		if order[i].Height <= order[i-1].Height {
			t.Fatalf("layer %d (h=%v) drawn after h=%v", i, order[i].Height, order[i-1].Height)
		}
	}
	if b.Layers[0].Height != 0 {
		t.Fatal("DrawOrder must not reorder the box itself")
	}
}

func TestCameraResizeBounds(t *testing.T) {
	for _, tc := range []struct{ w, h int }{
		{1280, 720}, {720, 1280}, {1, 1}, {1920, 1080}, {333, 777},
	} {
		c := NewCamera()
		if !c.Resize(tc.w, tc.h) {
			t.Fatalf("Resize(%d,%d) rejected", tc.w, tc.h)
		}
		a := float32(tc.w) / float32(tc.h)
		if got := c.Right - c.Left; math32.Abs(got-c.Width*a) > tol {
			t.Errorf("%dx%d: right-left = %v, want %v", tc.w, tc.h, got, c.Width*a)
		}
		if got := c.Top - c.Bottom; math32.Abs(got-c.Height) > tol {
			t.Errorf("%dx%d: top-bottom = %v, want %v", tc.w, tc.h, got, c.Height)
		}
		want := mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
		if !c.Projection().ApproxEqual(want) {
			t.Errorf("%dx%d: projection not updated", tc.w, tc.h)
		}
	}
}

func TestCameraResizeIgnoresEmptyViewport(t *testing.T) {
	c := NewCamera()
	c.Resize(800, 400)
	left, right := c.Left, c.Right
	if c.Resize(0, 400) || c.Resize(800, 0) {
		t.Fatal("empty viewport accepted")
	}
	if c.Left != left || c.Right != right {
		t.Fatal("bounds changed on empty viewport")
	}
}

func TestCameraSetAngle(t *testing.T) {
	for _, theta := range []float32{0, 0.5, math32.Pi / 2, math32.Pi, 4.2, 2 * math32.Pi} {
		c := NewCamera()
		c.SetAngle(theta)
		d := c.Distance
		wantX := math32.Cos(theta+math32.Pi/4) * d
		wantZ := math32.Sin(theta+math32.Pi/4) * d
		p := c.Position
		if math32.Abs(p.X()-wantX) > tol || math32.Abs(p.Z()-wantZ) > tol || p.Y() != d {
			t.Errorf("theta=%v: position = %v, want (%v, %v, %v)", theta, p, wantX, d, wantZ)
		}
		// The target must project onto the view axis.
		v := c.View().Mul4x1(c.Target.Vec4(1))
		if math32.Abs(v.X()) > 1e-4 || math32.Abs(v.Y()) > 1e-4 || v.Z() >= 0 {
			t.Errorf("theta=%v: target in view space = %v, want on -Z axis", theta, v)
		}
	}
}

func TestAssembleBox(t *testing.T) {
	src := &stubSource{src: "float snoise(vec3 v) { return 0.0; }"}
	u := shader.NewUniforms()
	b, err := AssembleBox(context.Background(), src, u, LayerCount)
	if err != nil {
		t.Fatal(err)
	}
	if src.calls != 1 {
		t.Fatalf("fetch called %d times, want 1", src.calls)
	}
	if b.Len() != LayerCount {
		t.Fatalf("layers = %d", b.Len())
	}
	if b.Material.Uniforms != u {
		t.Fatal("material must share the uniform set")
	}
	for _, l := range b.Layers {
		if l.Material != b.Material {
			t.Fatal("more than one material instance in the box")
		}
	}
}

func TestAssembleBoxFetchFailure(t *testing.T) {
	boom := errors.New("network down")
	src := &stubSource{err: boom}
	b, err := AssembleBox(context.Background(), src, shader.NewUniforms(), LayerCount)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if b != nil {
		t.Fatal("no box may be built when the fetch fails")
	}
}

func TestSceneAttach(t *testing.T) {
	s := New()
	if s.Box() != nil {
		t.Fatal("new scene must be empty")
	}
	b := NewBox(nil, 4)
	s.Attach(b)
	if s.Box() != b {
		t.Fatal("attached box not returned")
	}
}
