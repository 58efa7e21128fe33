package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initErr    error
	initOnce   sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	initOnce.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, initErr
}

// Stage is a WebGL2 source translated to desktop GLSL 4.10, with the
// translator's map from declared names to emitted names.
type Stage struct {
	Code      string
	Variables map[string]gst.ShaderVariable
}

// TranslateStage translates one WebGL2 shader stage ("vertex" or "fragment").
func TranslateStage(source, stage string) (*Stage, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	out, err := t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	return &Stage{Code: out.Code, Variables: out.Variables}, nil
}

// MappedName returns the emitted name of a declared variable, or name itself
// when the translator did not report it.
func (s *Stage) MappedName(name string) (string, bool) {
	if v, ok := s.Variables[name]; ok {
		return v.MappedName, true
	}
	return name, false
}
