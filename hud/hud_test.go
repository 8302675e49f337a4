package hud

import (
	"image/color"
	"testing"
)

func TestRenderEmpty(t *testing.T) {
	if img := Render(nil); img != nil {
		t.Errorf("Render(nil) = %v, want nil", img.Bounds())
	}
}

func TestRenderSizesPanel(t *testing.T) {
	img := Render([]string{"ab", "abcd"})
	b := img.Bounds()
	// Face7x13 advances 7 pixels per glyph.
	if b.Dx() != 4*7+2*Padding {
		t.Errorf("width = %d", b.Dx())
	}
	if b.Dy() != 2*LineHeight+2*Padding {
		t.Errorf("height = %d", b.Dy())
	}
	if got := img.RGBAAt(0, 0); got != Background {
		t.Errorf("corner = %v, want background", got)
	}
}

func TestRenderDrawsGlyphs(t *testing.T) {
	img := Render([]string{"H"})
	lit := 0
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if img.RGBAAt(x, y) == (color.RGBA{255, 255, 255, 255}) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no foreground pixels drawn")
	}
}
