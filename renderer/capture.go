package renderer

import (
	"errors"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// ReadPixels reads the output target back as an image with the top row first.
func (r *Renderer) ReadPixels() (*image.RGBA, error) {
	if r.output == nil {
		return nil, errors.New("renderer has no output target")
	}
	w, h := r.output.width, r.output.height
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.output.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&img.Pix[0]))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return nil, errors.New("glReadPixels failed")
	}

	flipRows(img)
	return img, nil
}

// ReadFrame reads the output target in GL row order, bottom row first.
// The encoder flips it.
func (r *Renderer) ReadFrame(buf []byte) ([]byte, error) {
	if r.output == nil {
		return nil, errors.New("renderer has no output target")
	}
	size := r.output.width * r.output.height * 4
	if cap(buf) < size {
		buf = make([]byte, size)
	}
	buf = buf[:size]

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.output.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.output.width), int32(r.output.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&buf[0]))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return buf, nil
}

func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}
