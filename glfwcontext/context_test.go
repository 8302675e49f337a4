package glfwcontext

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshadergallery/gallery"
)

func TestSwapInterval(t *testing.T) {
	if got := swapInterval(true); got != 1 {
		t.Errorf("visible window swap interval = %d, want 1", got)
	}
	if got := swapInterval(false); got != 0 {
		t.Errorf("hidden window swap interval = %d, want 0", got)
	}
}

func TestKeyMap(t *testing.T) {
	if keyMap[glfw.KeyLeft] != gallery.KeyLeft || keyMap[glfw.KeyF] != gallery.KeyF {
		t.Error("arrow and fullscreen keys not mapped")
	}
	if _, ok := keyMap[glfw.KeyEscape]; ok {
		t.Error("escape is handled by the window, not the gallery")
	}
}
