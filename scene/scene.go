package scene

import (
	"context"
	"fmt"
	"log"

	"github.com/richinsley/noisebox/shader"
)

// Scene is the drawable graph. It owns the box once one is attached.
type Scene struct {
	box *Box
}

func New() *Scene {
	return &Scene{}
}

// Attach inserts the box into the scene, replacing any previous one.
func (s *Scene) Attach(b *Box) {
	s.box = b
}

// Box returns the attached box, or nil if assembly has not completed.
func (s *Scene) Box() *Box {
	return s.box
}

// NoiseSource provides the GLSL noise functions the layer material needs.
type NoiseSource interface {
	FetchShader(ctx context.Context) (string, error)
}

// AssembleBox fetches the noise source, builds the shared material and the
// layers. Nothing is constructed when the fetch fails.
func AssembleBox(ctx context.Context, src NoiseSource, uniforms *shader.Uniforms, count int) (*Box, error) {
	noise, err := src.FetchShader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch noise shader: %w", err)
	}
	material := shader.NewLayerMaterial(noise, uniforms)
	box := NewBox(material, count)
	log.Printf("Assembled box with %d layers", box.Len())
	return box, nil
}
