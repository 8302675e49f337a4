package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadergallery/postfx"
)

// Number of horizontal+vertical blur pairs run on the bright pass.
const blurIterations = 2

type blitProgram struct {
	id         uint32
	textureLoc int32
}

type brightProgram struct {
	id           uint32
	textureLoc   int32
	thresholdLoc int32
}

type blurProgram struct {
	id           uint32
	textureLoc   int32
	directionLoc int32
	radiusLoc    int32
}

type compositeProgram struct {
	id          uint32
	sceneLoc    int32
	bloomLoc    int32
	strengthLoc int32
}

// Resize reallocates the scene and output targets at the drawing buffer size.
// Bloom runs at half resolution.
func (r *Renderer) Resize(width, height int) {
	if r.scene == nil {
		return
	}
	width, height = max(width, 1), max(height, 1)
	r.scene.Resize(width, height)
	r.output.Resize(width, height)
	r.bloom.Resize(max(width/2, 1), max(height/2, 1))
}

// BeginScene binds the scene target for the gallery shader to draw into.
func (r *Renderer) BeginScene() {
	r.scene.Bind()
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Finish runs the bloom chain when enabled and writes the result into the
// output target. With bloom disabled the scene is copied through unchanged.
func (r *Renderer) Finish(s postfx.Settings) {
	gl.BindVertexArray(r.quadVAO)

	if !s.Enabled {
		r.output.Bind()
		r.drawTexture(&r.blit, r.scene.textureID)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return
	}

	r.bloom.BindForWriting()
	gl.UseProgram(r.bright.id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.scene.textureID)
	gl.Uniform1i(r.bright.textureLoc, 0)
	gl.Uniform1f(r.bright.thresholdLoc, float32(s.Threshold))
	r.drawQuadRaw()
	r.bloom.Swap()

	gl.UseProgram(r.blur.id)
	gl.Uniform1i(r.blur.textureLoc, 0)
	gl.Uniform1f(r.blur.radiusLoc, float32(s.Radius))
	for i := 0; i < blurIterations; i++ {
		for _, dir := range [2][2]float32{{1, 0}, {0, 1}} {
			r.bloom.BindForWriting()
			gl.BindTexture(gl.TEXTURE_2D, r.bloom.GetTextureID())
			gl.Uniform2f(r.blur.directionLoc, dir[0], dir[1])
			r.drawQuadRaw()
			r.bloom.Swap()
		}
	}

	r.output.Bind()
	gl.UseProgram(r.composite.id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.scene.textureID)
	gl.Uniform1i(r.composite.sceneLoc, 0)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, r.bloom.GetTextureID())
	gl.Uniform1i(r.composite.bloomLoc, 1)
	gl.Uniform1f(r.composite.strengthLoc, float32(s.Strength))
	r.drawQuadRaw()

	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Destroy releases the post-processing targets. The renderer cannot draw
// scenes afterwards.
func (r *Renderer) Destroy() {
	if r.output != nil {
		r.output.Destroy()
		r.output = nil
	}
	if r.bloom != nil {
		r.bloom.Destroy()
		r.bloom = nil
	}
	if r.scene != nil {
		r.scene.Destroy()
		r.scene = nil
	}
}

func (r *Renderer) drawQuadRaw() {
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}
