// Package hud rasterizes the gallery overlay text into an image.
package hud

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Padding    = 8
	LineHeight = 15
)

var (
	Background = color.RGBA{0, 0, 0, 160}
	Foreground = color.RGBA{255, 255, 255, 255}
)

// Render draws lines top to bottom on a translucent panel sized to fit them.
// It returns nil when there is nothing to draw.
func Render(lines []string) *image.RGBA {
	if len(lines) == 0 {
		return nil
	}

	face := basicfont.Face7x13
	width := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width+2*Padding, len(lines)*LineHeight+2*Padding))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(Foreground),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(Padding, Padding+i*LineHeight+face.Ascent)
		d.DrawString(line)
	}
	return img
}
