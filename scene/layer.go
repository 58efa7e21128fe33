package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/noisebox/shader"
)

// quadIndices splits the unit quad into two counter-clockwise triangles.
var quadIndices = [6]int{0, 2, 1, 2, 3, 1}

// Layer is one flat quad of the stack. Vertices are in object space where Z is
// the stack axis; Model rotates Z onto world Y so the quad lies flat.
type Layer struct {
	Height   float32
	Vertices [4]mgl32.Vec3
	Model    mgl32.Mat4
	Material *shader.Material
}

// NewLayer builds a unit quad displaced to height along the stack axis.
func NewLayer(height float32, material *shader.Material) *Layer {
	return &Layer{
		Height: height,
		Vertices: [4]mgl32.Vec3{
			{-0.5, 0.5, height},
			{0.5, 0.5, height},
			{-0.5, -0.5, height},
			{0.5, -0.5, height},
		},
		Model:    mgl32.HomogRotate3DX(-math32.Pi / 2),
		Material: material,
	}
}

// Triangles returns the six object-space vertices of the two faces.
func (l *Layer) Triangles() [6]mgl32.Vec3 {
	var tris [6]mgl32.Vec3
	for i, idx := range quadIndices {
		tris[i] = l.Vertices[idx]
	}
	return tris
}

func (l *Layer) WorldVertices() [4]mgl32.Vec3 {
	var out [4]mgl32.Vec3
	for i, v := range l.Vertices {
		out[i] = l.Model.Mul4x1(v.Vec4(1)).Vec3()
	}
	return out
}

// Center is the world-space center of the quad.
func (l *Layer) Center() mgl32.Vec3 {
	return l.Model.Mul4x1(mgl32.Vec4{0, 0, l.Height, 1}).Vec3()
}
