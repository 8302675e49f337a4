package renderer

import (
	"fmt"
	"math"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadergallery/graphics"
	shader "github.com/richinsley/goshadergallery/shader"
)

var glInitOnce sync.Once

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// Renderer owns every GL resource of the gallery: the fullscreen quad, the
// gallery programs, the post-processing targets and the HUD overlay.
//
// It serves as the host backend, the post-effect passes and the snapshot
// surface at once. All methods must be called on the thread owning the context.
type Renderer struct {
	context graphics.Context
	isGLES  bool

	quadVAO uint32
	quadVBO uint32
	bound   *galleryProgram

	// Logical surface size and device pixel ratio.
	width      int
	height     int
	pixelRatio float64

	blit      blitProgram
	bright    brightProgram
	blur      blurProgram
	composite compositeProgram

	scene  *Target
	bloom  *PingPong
	output *Target

	overlay *overlay
}

// New creates a renderer on ctx, which becomes current on the calling thread.
func New(ctx graphics.Context) (*Renderer, error) {
	r := &Renderer{
		context:    ctx,
		isGLES:     ctx.IsGLES(),
		pixelRatio: 1,
	}

	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if err := r.initPrograms(); err != nil {
		r.Shutdown()
		return nil, err
	}

	w, h := ctx.GetFramebufferSize()
	w, h = max(w, 1), max(h, 1)
	var err error
	if r.scene, err = newTarget(w, h, gl.RGBA16F, gl.FLOAT); err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create scene target: %w", err)
	}
	if r.bloom, err = newPingPong(max(w/2, 1), max(h/2, 1)); err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create bloom targets: %w", err)
	}
	if r.output, err = newTarget(w, h, gl.RGBA8, gl.UNSIGNED_BYTE); err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create output target: %w", err)
	}

	if r.overlay, err = newOverlay(r.isGLES); err != nil {
		r.Shutdown()
		return nil, err
	}

	return r, nil
}

func (r *Renderer) initPrograms() error {
	var err error
	vs := shader.GenerateVertexShader(r.isGLES)

	if r.blit.id, err = newProgram(vs, shader.GetBlitFragmentShader(r.isGLES)); err != nil {
		return fmt.Errorf("failed to create blit program: %w", err)
	}
	r.blit.textureLoc = uniformLocation(r.blit.id, nil, "u_texture")

	if r.bright.id, err = newProgram(vs, shader.GetBrightFragmentShader(r.isGLES)); err != nil {
		return fmt.Errorf("failed to create bright pass program: %w", err)
	}
	r.bright.textureLoc = uniformLocation(r.bright.id, nil, "u_texture")
	r.bright.thresholdLoc = uniformLocation(r.bright.id, nil, "u_threshold")

	if r.blur.id, err = newProgram(vs, shader.GetBlurFragmentShader(r.isGLES)); err != nil {
		return fmt.Errorf("failed to create blur program: %w", err)
	}
	r.blur.textureLoc = uniformLocation(r.blur.id, nil, "u_texture")
	r.blur.directionLoc = uniformLocation(r.blur.id, nil, "u_direction")
	r.blur.radiusLoc = uniformLocation(r.blur.id, nil, "u_radius")

	if r.composite.id, err = newProgram(vs, shader.GetCompositeFragmentShader(r.isGLES)); err != nil {
		return fmt.Errorf("failed to create composite program: %w", err)
	}
	r.composite.sceneLoc = uniformLocation(r.composite.id, nil, "u_scene")
	r.composite.bloomLoc = uniformLocation(r.composite.id, nil, "u_bloom")
	r.composite.strengthLoc = uniformLocation(r.composite.id, nil, "u_strength")
	return nil
}

// Shutdown releases every GL resource. The context itself is left to the caller.
func (r *Renderer) Shutdown() {
	if r.overlay != nil {
		r.overlay.Destroy()
		r.overlay = nil
	}
	r.Destroy()
	for _, id := range []uint32{r.blit.id, r.bright.id, r.blur.id, r.composite.id} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
	r.blit, r.bright, r.blur, r.composite = blitProgram{}, brightProgram{}, blurProgram{}, compositeProgram{}
	r.ReleaseQuad()
}

// Size returns the logical surface size.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = width, height
}

func (r *Renderer) PixelRatio() float64 { return r.pixelRatio }

func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = ratio
}

// DrawingBufferSize returns the logical size scaled by the pixel ratio.
func (r *Renderer) DrawingBufferSize() (int, int) {
	w := int(math.Round(float64(r.width) * r.pixelRatio))
	h := int(math.Round(float64(r.height) * r.pixelRatio))
	return max(w, 1), max(h, 1)
}

// Present copies the finished frame to the window and draws the HUD lines on
// top, magnified by hudScale.
func (r *Renderer) Present(lines []string, hudScale float64) {
	if r.output == nil {
		return
	}
	fbWidth, fbHeight := r.context.GetFramebufferSize()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	r.drawTexture(&r.blit, r.output.textureID)

	if len(lines) > 0 {
		r.overlay.Draw(r.quadVAO, lines, fbWidth, fbHeight, hudScale)
	}
}

func (r *Renderer) drawTexture(p *blitProgram, texture uint32) {
	gl.UseProgram(p.id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.Uniform1i(p.textureLoc, 0)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}
