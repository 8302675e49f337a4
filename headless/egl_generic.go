//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/goshadergallery/app"
)

func NewHeadless(width, height int) (app.Window, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
