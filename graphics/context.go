package graphics

// Context defines the interface for an OpenGL context and its window.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	SwapBuffers()
	// PollEvents processes pending window events, waiting up to wait seconds
	// for one to arrive when wait is positive.
	PollEvents(wait float64)
	GetFramebufferSize() (int, int)
	// GetWindowSize returns the window size in screen coordinates.
	GetWindowSize() (int, int)
	Time() float64
	IsGLES() bool
}
