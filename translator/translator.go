package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process-wide shader translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Translated is a WebGL2 shader rewritten for the current context.
type Translated struct {
	Code string
	// Uniforms maps source uniform names to the names in Code.
	Uniforms map[string]string
}

// Translate converts a WebGL2 source of the given stage ("vertex" or "fragment")
// to GLSL 410 core, or ESSL when isGLES is set.
func Translate(stage, source string, isGLES bool) (*Translated, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	out, err := t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}

	retv := &Translated{
		Code:     out.Code,
		Uniforms: make(map[string]string, len(out.Variables)),
	}
	for name, v := range out.Variables {
		retv.Uniforms[name] = v.MappedName
	}
	return retv, nil
}
