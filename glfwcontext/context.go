package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshadergallery/gallery"
)

var keyMap = map[glfw.Key]gallery.Key{
	glfw.KeyLeft:  gallery.KeyLeft,
	glfw.KeyRight: gallery.KeyRight,
	glfw.KeyUp:    gallery.KeyUp,
	glfw.KeyDown:  gallery.KeyDown,
	glfw.KeyH:     gallery.KeyH,
	glfw.KeyS:     gallery.KeyS,
	glfw.KeyB:     gallery.KeyB,
	glfw.KeyR:     gallery.KeyR,
	glfw.KeyF:     gallery.KeyF,
}

// Context is a GLFW window with an OpenGL 4.1 core context.
type Context struct {
	window       *glfw.Window
	swapInterval int

	onKey     func(gallery.Key)
	onPointer func(x, y float64)
	onResize  func()

	// Windowed placement saved while fullscreen.
	fullscreen bool
	savedX     int
	savedY     int
	savedW     int
	savedH     int
}

// New creates a window of the given size in screen coordinates. A hidden
// window still owns a usable context for offscreen rendering.
func New(width, height int, title string, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win, swapInterval: swapInterval(visible)}
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	win.SetContentScaleCallback(c.glfwContentScaleCallback)
	return c, nil
}

// SetKeyHandler registers the function called for gallery shortcuts.
func (c *Context) SetKeyHandler(f func(gallery.Key)) { c.onKey = f }

// SetPointerHandler registers the function called with the cursor position in
// screen coordinates relative to the window's top-left corner.
func (c *Context) SetPointerHandler(f func(x, y float64)) { c.onPointer = f }

// SetResizeHandler registers the function called when the framebuffer size or
// the content scale changes.
func (c *Context) SetResizeHandler(f func()) { c.onResize = f }

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		if c.fullscreen {
			c.ToggleFullscreen()
		} else {
			w.SetShouldClose(true)
		}
		return
	}

	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	// Only the strength keys auto-repeat.
	k, ok := keyMap[key]
	if !ok || (action == glfw.Repeat && k != gallery.KeyUp && k != gallery.KeyDown) {
		return
	}
	if c.onKey != nil {
		c.onKey(k)
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, x, y float64) {
	if c.onPointer != nil {
		c.onPointer(x, y)
	}
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	if c.onResize != nil {
		c.onResize()
	}
}

func (c *Context) glfwContentScaleCallback(w *glfw.Window, x, y float32) {
	if c.onResize != nil {
		c.onResize()
	}
}

// ToggleFullscreen switches between a window and the primary monitor's video mode.
func (c *Context) ToggleFullscreen() {
	if c.fullscreen {
		c.window.SetMonitor(nil, c.savedX, c.savedY, c.savedW, c.savedH, 0)
		c.fullscreen = false
		return
	}

	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		log.Println("Fullscreen unavailable: no primary monitor")
		return
	}
	mode := monitor.GetVideoMode()
	c.savedX, c.savedY = c.window.GetPos()
	c.savedW, c.savedH = c.window.GetSize()
	c.window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	c.fullscreen = true
}

func (c *Context) IsFullscreen() bool { return c.fullscreen }

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// swapInterval syncs a visible window to the display refresh. A hidden
// window only renders offscreen and never waits on vblank.
func swapInterval(visible bool) int {
	if visible {
		return 1
	}
	return 0
}

// MakeCurrent makes the context current for the calling goroutine and applies
// the window's swap interval, which is per-context state.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
	glfw.SwapInterval(c.swapInterval)
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) PollEvents(wait float64) {
	if wait > 0 {
		glfw.WaitEventsTimeout(wait)
		return
	}
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) GetWindowSize() (int, int) {
	return c.window.GetSize()
}

// PixelRatio returns framebuffer pixels per screen coordinate.
func (c *Context) PixelRatio() float64 {
	fbWidth, _ := c.window.GetFramebufferSize()
	winWidth, _ := c.window.GetSize()
	if fbWidth <= 0 || winWidth <= 0 {
		return 1
	}
	return float64(fbWidth) / float64(winWidth)
}

func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
