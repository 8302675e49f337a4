package renderer

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadergallery/hud"
	shader "github.com/richinsley/goshadergallery/shader"
)

// overlay draws the HUD panel in the top-left corner of the window.
// The panel texture is only re-uploaded when the text changes.
type overlay struct {
	program    uint32
	rectLoc    int32
	textureLoc int32
	texture    uint32
	text       string
	width      int
	height     int
}

func newOverlay(isGLES bool) (*overlay, error) {
	o := &overlay{}
	var err error
	o.program, err = newProgram(shader.GetOverlayVertexShader(isGLES), shader.GetOverlayFragmentShader(isGLES))
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay program: %w", err)
	}
	o.rectLoc = uniformLocation(o.program, nil, "u_rect")
	o.textureLoc = uniformLocation(o.program, nil, "u_texture")

	gl.GenTextures(1, &o.texture)
	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return o, nil
}

func (o *overlay) upload(lines []string) {
	text := strings.Join(lines, "\n")
	if text == o.text && o.width > 0 {
		return
	}
	img := hud.Render(lines)
	o.text = text
	o.width, o.height = img.Bounds().Dx(), img.Bounds().Dy()

	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(o.width), int32(o.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Draw blends the panel over the default framebuffer.
func (o *overlay) Draw(vao uint32, lines []string, fbWidth, fbHeight int, scale float64) {
	if fbWidth <= 0 || fbHeight <= 0 {
		return
	}
	if scale < 1 {
		scale = 1
	}
	o.upload(lines)

	w := float32(float64(o.width)*scale) / float32(fbWidth) * 2
	h := float32(float64(o.height)*scale) / float32(fbHeight) * 2

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(o.program)
	gl.Uniform4f(o.rectLoc, -1, 1-h, -1+w, 1)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.Uniform1i(o.textureLoc, 0)
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
}

func (o *overlay) Destroy() {
	gl.DeleteTextures(1, &o.texture)
	gl.DeleteProgram(o.program)
}
