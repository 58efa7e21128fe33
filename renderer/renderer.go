package renderer

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/noisebox/graphics"
	"github.com/richinsley/noisebox/scene"
	"github.com/richinsley/noisebox/shader"
	xlate "github.com/richinsley/noisebox/translator"
)

// Package-level variable to ensure gl.Init() is called only once.
var glInitOnce sync.Once

const positionAttrib = 0

// Renderer draws a scene's box with its single shared material.
type Renderer struct {
	context graphics.Context

	program  uint32
	vao      uint32
	vbo      uint32
	box      *scene.Box
	firstVtx map[*scene.Layer]int32
	uniforms *shader.Uniforms

	timeLoc       int32
	scaleLoc      int32
	modelViewLoc  int32
	projectionLoc int32

	offscreenRenderer *OffscreenRenderer
	width             int
	height            int
	recordMode        bool
}

func NewRenderer(ctx graphics.Context, width, height int, recordMode bool) (*Renderer, error) {
	r := &Renderer{
		context:    ctx,
		width:      width,
		height:     height,
		recordMode: recordMode,
		firstVtx:   make(map[*scene.Layer]int32),
	}

	// Make the context current BEFORE initializing OpenGL.
	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if recordMode {
		var err error
		r.offscreenRenderer, err = NewOffscreenRenderer(width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
		}
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0, 0, 0, 1)

	return r, nil
}

func (r *Renderer) Shutdown() {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.offscreenRenderer != nil {
		r.offscreenRenderer.Destroy()
	}
}

// Load compiles the box material and uploads every layer's quad into one
// vertex buffer. Each layer occupies six consecutive vertices.
func (r *Renderer) Load(box *scene.Box) error {
	material := box.Material
	if material == nil {
		return fmt.Errorf("box has no material")
	}

	vs, err := xlate.TranslateStage(material.VertexSource, "vertex")
	if err != nil {
		return err
	}
	fs, err := xlate.TranslateStage(material.FragmentSource, "fragment")
	if err != nil {
		return err
	}
	positionName, _ := vs.MappedName("position")

	program, err := newProgram(vs.Code, fs.Code, map[uint32]string{positionAttrib: positionName})
	if err != nil {
		return fmt.Errorf("failed to create layer program: %w", err)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	r.program = program

	gl.UseProgram(r.program)
	r.timeLoc = r.getUniformLocation(fs, shader.UniformTime)
	r.scaleLoc = r.getUniformLocation(vs, shader.UniformScale)
	r.modelViewLoc = r.getUniformLocation(vs, shader.UniformModelView)
	r.projectionLoc = r.getUniformLocation(vs, shader.UniformProjection)

	vertices := make([]float32, 0, box.Len()*6*3)
	clear(r.firstVtx)
	for i, layer := range box.Layers {
		r.firstVtx[layer] = int32(i * 6)
		for _, v := range layer.Triangles() {
			vertices = append(vertices, v.X(), v.Y(), v.Z())
		}
	}

	if r.vao == 0 {
		gl.GenVertexArrays(1, &r.vao)
		gl.GenBuffers(1, &r.vbo)
	}
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(positionAttrib)
	gl.VertexAttribPointer(positionAttrib, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.box = box
	r.uniforms = material.Uniforms
	log.Printf("Loaded %d layers (%d vertices)", box.Len(), len(vertices)/3)
	return nil
}

// SetSize resizes the output surface. In record mode the output size is
// fixed at construction.
func (r *Renderer) SetSize(width, height int) {
	if r.recordMode {
		return
	}
	r.width = width
	r.height = height
}

// Render draws the scene through the camera. Layers are drawn back-to-front
// with a single program bind; the uniform set is uploaded once per frame.
func (r *Renderer) Render(s *scene.Scene, camera *scene.Camera) error {
	if r.offscreenRenderer != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, r.offscreenRenderer.fbo)
		defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	box := s.Box()
	if box == nil {
		return nil
	}
	if box != r.box {
		return fmt.Errorf("scene box was not loaded into the renderer")
	}

	gl.UseProgram(r.program)
	if r.timeLoc != -1 {
		gl.Uniform1f(r.timeLoc, r.uniforms.Time)
	}
	if r.scaleLoc != -1 {
		scale := r.uniforms.Scale
		gl.Uniform3f(r.scaleLoc, scale.X(), scale.Y(), scale.Z())
	}
	if r.projectionLoc != -1 {
		projection := camera.Projection()
		gl.UniformMatrix4fv(r.projectionLoc, 1, false, &projection[0])
	}

	view := camera.View()
	gl.BindVertexArray(r.vao)
	for _, layer := range box.DrawOrder(view) {
		if r.modelViewLoc != -1 {
			modelView := view.Mul4(layer.Model)
			gl.UniformMatrix4fv(r.modelViewLoc, 1, false, &modelView[0])
		}
		gl.DrawArrays(gl.TRIANGLES, r.firstVtx[layer], 6)
	}
	gl.BindVertexArray(0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		return fmt.Errorf("OpenGL error 0x%x while drawing", errCode)
	}
	return nil
}

func (r *Renderer) getUniformLocation(stage *xlate.Stage, name string) int32 {
	mapped, ok := stage.MappedName(name)
	if !ok {
		// Unused uniforms are optimised away and not reported.
		return -1
	}
	return gl.GetUniformLocation(r.program, gl.Str(mapped+"\x00"))
}

func newProgram(vertexShaderSource, fragmentShaderSource string, attribs map[uint32]string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	for loc, name := range attribs {
		gl.BindAttribLocation(program, loc, gl.Str(name+"\x00"))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(logText))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return sh, nil
}
