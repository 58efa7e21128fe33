package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/noisebox/shader"
)

// LayerCount is the number of layers in a box unless configured otherwise.
const LayerCount = 32

// Box is the stack of layers inserted into the scene as one unit. All layers
// reference the same material.
type Box struct {
	Layers   []*Layer
	Material *shader.Material
}

// NewBox places count layers at heights i/count for i in [0, count).
func NewBox(material *shader.Material, count int) *Box {
	if count <= 0 {
		count = LayerCount
	}
	b := &Box{
		Layers:   make([]*Layer, 0, count),
		Material: material,
	}
	for i := 0; i < count; i++ {
		b.Layers = append(b.Layers, NewLayer(float32(i)/float32(count), material))
	}
	return b
}

func (b *Box) Len() int {
	return len(b.Layers)
}

// DrawOrder returns the layers sorted back-to-front for the given view
// matrix, which is the order translucent geometry has to be blended in.
func (b *Box) DrawOrder(view mgl32.Mat4) []*Layer {
	ordered := make([]*Layer, len(b.Layers))
	copy(ordered, b.Layers)
	depth := make(map[*Layer]float32, len(ordered))
	for _, l := range ordered {
		depth[l] = view.Mul4x1(l.Center().Vec4(1)).Z()
	}
	// View space looks down -Z: the most negative Z is the farthest.
	sort.SliceStable(ordered, func(i, j int) bool {
		return depth[ordered[i]] < depth[ordered[j]]
	})
	return ordered
}
