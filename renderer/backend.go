package renderer

import (
	"fmt"
	"log"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadergallery/host"
	"github.com/richinsley/goshadergallery/translator"
)

// galleryProgram is a linked gallery shader and its uniform locations.
type galleryProgram struct {
	id            uint32
	timeLoc       int32
	resolutionLoc int32
	mouseLoc      int32
}

// Upload binds the program and sets the shared uniforms the shader declares.
func (p *galleryProgram) Upload(u *host.UniformSet) {
	gl.UseProgram(p.id)
	if p.timeLoc != -1 {
		gl.Uniform1f(p.timeLoc, float32(u.Time))
	}
	if p.resolutionLoc != -1 {
		gl.Uniform2f(p.resolutionLoc, float32(u.Resolution.X), float32(u.Resolution.Y))
	}
	if p.mouseLoc != -1 {
		gl.Uniform2f(p.mouseLoc, float32(u.Pointer.X), float32(u.Pointer.Y))
	}
}

func (p *galleryProgram) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// Compile translates both stages to the context dialect and links them.
// Both stages go through the translator so their varying names agree.
func (r *Renderer) Compile(name, vertex, fragment string) (host.Program, error) {
	vs, err := translator.Translate("vertex", vertex, r.isGLES)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	fs, err := translator.Translate("fragment", fragment, r.isGLES)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}

	id, err := newProgram(vs.Code, fs.Code)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}

	p := &galleryProgram{
		id:            id,
		timeLoc:       uniformLocation(id, fs.Uniforms, "u_time"),
		resolutionLoc: uniformLocation(id, fs.Uniforms, "u_resolution"),
		mouseLoc:      uniformLocation(id, fs.Uniforms, "u_mouse"),
	}
	if p.timeLoc == -1 {
		log.Printf("shader %s does not use u_time", name)
	}
	return p, nil
}

func (r *Renderer) Bind(p host.Program) {
	gp, ok := p.(*galleryProgram)
	if !ok {
		log.Printf("renderer: cannot bind program of type %T", p)
		return
	}
	r.bound = gp
}

// DrawQuad draws the fullscreen quad with the bound program into the
// currently bound framebuffer.
func (r *Renderer) DrawQuad() {
	if r.bound == nil || r.quadVAO == 0 {
		return
	}
	gl.UseProgram(r.bound.id)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

func (r *Renderer) ReleaseQuad() {
	r.bound = nil
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
		r.quadVBO = 0
	}
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
		r.quadVAO = 0
	}
}
