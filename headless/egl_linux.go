//go:build linux

package headless

import (
	"fmt"
	"log"
	"time"

	"github.com/richinsley/goshadergallery/gallery"
)

/*
#cgo LDFLAGS: -lEGL -lGLESv2
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC query_devices_ext = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC platform_display_ext = NULL;

static void load_device_extensions() {
    query_devices_ext = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    platform_display_ext = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLBoolean query_devices(EGLint max, EGLDeviceEXT *devices, EGLint *count) {
    return query_devices_ext ? query_devices_ext(max, devices, count) : EGL_FALSE;
}

static EGLDisplay device_display(EGLDeviceEXT device) {
    if (!platform_display_ext) {
        return EGL_NO_DISPLAY;
    }
    return platform_display_ext(EGL_PLATFORM_DEVICE_EXT, device, NULL);
}
*/
import "C"

var (
	noDisplay = C.EGLDisplay(C.EGL_NO_DISPLAY)
	noSurface = C.EGLSurface(C.EGL_NO_SURFACE)
	noContext = C.EGLContext(C.EGL_NO_CONTEXT)
)

// Headless is an OpenGL ES 3 context on an EGL pbuffer, used in place of a
// window for -record -headless. Input and window calls are no-ops.
type Headless struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface
	width   int
	height  int
	start   time.Time
}

// openDisplay returns the first GPU device display, or the default display
// when device enumeration is unavailable.
func openDisplay() (C.EGLDisplay, error) {
	C.load_device_extensions()

	var count C.EGLint
	if C.query_devices(0, nil, &count) == C.EGL_TRUE && count > 0 {
		devices := make([]C.EGLDeviceEXT, count)
		if C.query_devices(count, &devices[0], &count) == C.EGL_TRUE {
			for i := 0; i < int(count); i++ {
				if d := C.device_display(devices[i]); d != noDisplay {
					log.Printf("Using EGL device %d of %d", i, count)
					return d, nil
				}
			}
		}
	}

	log.Println("No EGL device display, using EGL_DEFAULT_DISPLAY")
	d := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
	if d == noDisplay {
		return noDisplay, fmt.Errorf("no EGL display available")
	}
	return d, nil
}

// chooseConfig picks an RGBA8 pbuffer config for ES 3. The renderer draws
// into its own framebuffers, so no depth buffer is requested.
func chooseConfig(display C.EGLDisplay) (C.EGLConfig, error) {
	attribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES3_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var n C.EGLint
	if C.eglChooseConfig(display, &attribs[0], &config, 1, &n) == C.EGL_FALSE || n == 0 {
		return config, fmt.Errorf("no matching EGL config")
	}
	return config, nil
}

// NewHeadless creates a width x height pbuffer context and makes it current.
func NewHeadless(width, height int) (*Headless, error) {
	h := &Headless{
		display: noDisplay,
		context: noContext,
		surface: noSurface,
		width:   width,
		height:  height,
	}
	if err := h.init(); err != nil {
		h.Shutdown()
		return nil, err
	}
	h.start = time.Now()
	return h, nil
}

func (h *Headless) init() error {
	display, err := openDisplay()
	if err != nil {
		return err
	}
	var major, minor C.EGLint
	if C.eglInitialize(display, &major, &minor) == C.EGL_FALSE {
		return fmt.Errorf("eglInitialize failed")
	}
	h.display = display
	log.Printf("EGL %d.%d", major, minor)

	config, err := chooseConfig(h.display)
	if err != nil {
		return err
	}

	size := []C.EGLint{C.EGL_WIDTH, C.EGLint(h.width), C.EGL_HEIGHT, C.EGLint(h.height), C.EGL_NONE}
	if h.surface = C.eglCreatePbufferSurface(h.display, config, &size[0]); h.surface == noSurface {
		return fmt.Errorf("failed to create %dx%d pbuffer", h.width, h.height)
	}

	version := []C.EGLint{C.EGL_CONTEXT_CLIENT_VERSION, 3, C.EGL_NONE}
	if h.context = C.eglCreateContext(h.display, config, noContext, &version[0]); h.context == noContext {
		return fmt.Errorf("failed to create ES 3 context")
	}

	if C.eglMakeCurrent(h.display, h.surface, h.surface, h.context) == C.EGL_FALSE {
		return fmt.Errorf("eglMakeCurrent failed")
	}
	return nil
}

func (h *Headless) MakeCurrent() {
	C.eglMakeCurrent(h.display, h.surface, h.surface, h.context)
}

// Shutdown releases whatever init managed to create. It is safe to call twice.
func (h *Headless) Shutdown() {
	if h.display == noDisplay {
		return
	}
	C.eglMakeCurrent(h.display, noSurface, noSurface, noContext)
	if h.context != noContext {
		C.eglDestroyContext(h.display, h.context)
		h.context = noContext
	}
	if h.surface != noSurface {
		C.eglDestroySurface(h.display, h.surface)
		h.surface = noSurface
	}
	C.eglTerminate(h.display)
	h.display = noDisplay
}

func (h *Headless) SwapBuffers() {
	C.eglSwapBuffers(h.display, h.surface)
}

func (h *Headless) ShouldClose() bool                    { return false }
func (h *Headless) PollEvents(wait float64)              {}
func (h *Headless) GetFramebufferSize() (int, int)       { return h.width, h.height }
func (h *Headless) GetWindowSize() (int, int)            { return h.width, h.height }
func (h *Headless) Time() float64                        { return time.Since(h.start).Seconds() }
func (h *Headless) IsGLES() bool                         { return true }
func (h *Headless) PixelRatio() float64                  { return 1 }
func (h *Headless) SetTitle(title string)                {}
func (h *Headless) ToggleFullscreen()                    {}
func (h *Headless) SetKeyHandler(func(gallery.Key))      {}
func (h *Headless) SetPointerHandler(func(x, y float64)) {}
func (h *Headless) SetResizeHandler(func())              {}
