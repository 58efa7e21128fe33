package shader

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Names of the uniforms declared by the layer stages.
const (
	UniformTime       = "time"
	UniformScale      = "scale"
	UniformModelView  = "modelViewMatrix"
	UniformProjection = "projectionMatrix"
)

// Uniforms is the value set shared by every layer's draw. Time is written once
// per frame, Scale never changes after construction.
type Uniforms struct {
	Time  float32
	Scale mgl32.Vec3
}

func NewUniforms() *Uniforms {
	return &Uniforms{
		Time:  0,
		Scale: mgl32.Vec3{1, 1, 0},
	}
}
