package shader

import (
	"strings"
)

// ──────────────────────────────── Layer vertex ─────────────────────────────────

// Both stages are written against WebGL2 (GLSL ES 3.00) and translated to the
// desktop profile before compilation, so identifier mangling is consistent
// across the varying shared by the two stages.
const layerVertexShaderSource = `#version 300 es
precision highp float;

uniform mat4 modelViewMatrix;
uniform mat4 projectionMatrix;
uniform vec3 scale;

layout(location = 0) in vec3 position;
out vec3 vPosition;

void main() {
    vPosition = position;

    gl_Position = projectionMatrix *
        modelViewMatrix *
        vec4(position, 1.0);
}
`

// ─────────────────────────────── Layer fragment ────────────────────────────────

const layerFragmentPreamble = `#version 300 es
precision highp float;
precision highp int;

`

// The banding in intensity comes from the floor() below. Keep the arithmetic
// as is, including the precedence of "+ 1.0 / 2.0".
const layerFragmentBody = `
uniform float time;
in vec3 vPosition;
out vec4 fragColor;

void main() {
    // base colors
    vec3 base = vec3(.55, .3, 1.0);
    vec3 top = vec3(.53, .89, .84);

    float timeMultiplier1 = .25;
    vec3 offset1 = vec3(
        time * timeMultiplier1,
        time * timeMultiplier1,
        time * timeMultiplier1
    );
    float timeMultiplier2 = .333;
    vec3 offset2 = vec3(
        time * -timeMultiplier2,
        time * -timeMultiplier2,
        time * -timeMultiplier2
    );

    float noiseScale = 1.5;
    float random1 = snoise(vPosition * noiseScale + offset1);
    float random2 = snoise(vPosition * noiseScale + offset2);
    float random = ((random1 + random2) / 2.0) + 1.0 / 2.0;

    float intensityOffset = .3;
    float intensity = max(.0, floor(random + intensityOffset));

    vec3 color = base + (top - base) * vPosition.z + intensity * .1;

    float alphaBase = .1;
    float alphaMultiplier = 1.0 - alphaBase;
    float alpha = intensity * alphaMultiplier + alphaBase;

    fragColor = vec4(color, alpha);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Material is a shader program descriptor: both stage sources plus the
// uniform set every draw with this material reads from.
type Material struct {
	VertexSource   string
	FragmentSource string
	Uniforms       *Uniforms
	Transparent    bool
}

// NewLayerMaterial composes the noise functions with the layer templates.
// The returned material references uniforms, it does not copy them.
func NewLayerMaterial(noise string, uniforms *Uniforms) *Material {
	return &Material{
		VertexSource:   GenerateLayerVertexShader(),
		FragmentSource: GenerateLayerFragmentShader(noise),
		Uniforms:       uniforms,
		Transparent:    true,
	}
}

func GenerateLayerVertexShader() string {
	return layerVertexShaderSource
}

// GenerateLayerFragmentShader places the noise source between the version
// preamble and the layer body. A #version line inside the fetched source would
// break compilation, so it is dropped.
func GenerateLayerFragmentShader(noise string) string {
	var b strings.Builder
	b.WriteString(layerFragmentPreamble)
	b.WriteString(stripVersion(noise))
	b.WriteString("\n")
	b.WriteString(layerFragmentBody)
	return b.String()
}

func stripVersion(src string) string {
	lines := strings.Split(src, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "#version") {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
