package renderer

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Target is a single framebuffer with one color texture.
type Target struct {
	fbo            uint32
	textureID      uint32
	width          int
	height         int
	internalFormat int32
	pixelType      uint32
}

func newTarget(width, height int, internalFormat int32, pixelType uint32) (*Target, error) {
	t := &Target{
		width:          width,
		height:         height,
		internalFormat: internalFormat,
		pixelType:      pixelType,
	}

	gl.GenTextures(1, &t.textureID)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(width), int32(height), 0, gl.RGBA, pixelType, nil)
	setLinearClamp()

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.textureID, 0)
	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		t.Destroy()
		return nil, fmt.Errorf("framebuffer %dx%d is not complete", width, height)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// Bind makes the target the draw framebuffer and sets the viewport to cover it.
func (t *Target) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.width), int32(t.height))
}

func (t *Target) Resize(width, height int) {
	if width == t.width && height == t.height {
		return
	}
	t.width, t.height = width, height
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, t.internalFormat, int32(width), int32(height), 0, gl.RGBA, t.pixelType, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (t *Target) Destroy() {
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.textureID)
}

// PingPong manages two framebuffers for passes that read the previous pass's
// output while writing the next one.
type PingPong struct {
	fbo        [2]uint32
	textureID  [2]uint32
	readIndex  int
	writeIndex int
	width      int
	height     int
}

func newPingPong(width, height int) (*PingPong, error) {
	p := &PingPong{readIndex: 0, writeIndex: 1, width: width, height: height}

	for i := 0; i < 2; i++ {
		gl.GenTextures(1, &p.textureID[i])
		gl.BindTexture(gl.TEXTURE_2D, p.textureID[i])
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
		setLinearClamp()

		gl.GenFramebuffers(1, &p.fbo[i])
		gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo[i])
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, p.textureID[i], 0)
		if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
			p.Destroy()
			return nil, fmt.Errorf("ping-pong framebuffer %d is not complete", i)
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return p, nil
}

// BindForWriting binds the current write framebuffer.
func (p *PingPong) BindForWriting() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo[p.writeIndex])
	gl.Viewport(0, 0, int32(p.width), int32(p.height))
}

// Swap makes the last written texture the one to read from.
func (p *PingPong) Swap() {
	p.readIndex, p.writeIndex = p.writeIndex, p.readIndex
}

// GetTextureID returns the texture holding the last pass's output.
func (p *PingPong) GetTextureID() uint32 {
	return p.textureID[p.readIndex]
}

func (p *PingPong) Resize(width, height int) {
	if width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	for i := 0; i < 2; i++ {
		gl.BindTexture(gl.TEXTURE_2D, p.textureID[i])
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (p *PingPong) Destroy() {
	gl.DeleteFramebuffers(2, &p.fbo[0])
	gl.DeleteTextures(2, &p.textureID[0])
}

func setLinearClamp() {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}
