package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/richinsley/goshadergallery/app"
	"github.com/richinsley/goshadergallery/assets"
	"github.com/richinsley/goshadergallery/gallery"
	"github.com/richinsley/goshadergallery/glfwcontext"
	"github.com/richinsley/goshadergallery/headless"
	"github.com/richinsley/goshadergallery/options"
	"github.com/richinsley/goshadergallery/postfx"
	"github.com/richinsley/goshadergallery/recorder"
	"github.com/richinsley/goshadergallery/registry"
	"github.com/richinsley/goshadergallery/renderer"
	"github.com/richinsley/goshadergallery/snapshot"
)

func init() {
	runtime.LockOSThread()
}

func loadRegistry(dir string) (*registry.Registry, error) {
	if dir == "" {
		return assets.Load()
	}
	return assets.LoadFS(os.DirFS(dir), assets.ManifestFile)
}

func run(opts *options.GalleryOptions) error {
	reg, err := loadRegistry(*opts.AssetsDir)
	if err != nil {
		return fmt.Errorf("failed to load shaders: %w", err)
	}
	log.Printf("Loaded %d shaders", reg.Len())

	var win app.Window
	if *opts.Headless {
		hw, err := headless.NewHeadless(*opts.Width, *opts.Height)
		if err != nil {
			return fmt.Errorf("failed to create headless context: %w", err)
		}
		win = hw
	} else {
		if err := glfwcontext.InitGraphics(); err != nil {
			return fmt.Errorf("failed to initialize GLFW: %w", err)
		}
		defer glfwcontext.TerminateGraphics()

		// Recording renders offscreen, so its window stays hidden.
		gw, err := glfwcontext.New(*opts.Width, *opts.Height, gallery.Title, !*opts.Record)
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
		win = gw
	}
	defer win.Shutdown()

	r, err := renderer.New(win)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Shutdown()

	resIndex, _ := opts.ResolutionIndex()
	a := app.New(win, r, app.Config{
		Registry: reg,
		Bloom: postfx.Settings{
			Enabled:   *opts.Bloom,
			Strength:  *opts.BloomStrength,
			Radius:    *opts.BloomRadius,
			Threshold: *opts.BloomThreshold,
		},
		InitialShader:   *opts.Shader,
		ResolutionIndex: resIndex,
		Sink:            snapshot.DirSink{Dir: *opts.SnapshotDir},
		FPS:             *opts.FPS,
	})
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *opts.Record {
		fps := *opts.FPS
		if fps <= 0 {
			fps = 60
		}
		enc := &recorder.FFmpeg{
			Width:  *opts.Width,
			Height: *opts.Height,
			FPS:    fps,
			Output: *opts.OutputFile,
			Path:   *opts.FFMPEGPath,
		}
		settings := recorder.Settings{Duration: *opts.Duration, FPS: fps}
		if err := a.Record(ctx, *opts.Width, *opts.Height, enc, settings); err != nil {
			return fmt.Errorf("recording failed: %w", err)
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return nil
	}

	if *opts.Fullscreen {
		win.ToggleFullscreen()
	}
	log.Println("Starting interactive render loop...")
	a.Run(ctx)
	return nil
}

func main() {
	opts := options.Register(flag.CommandLine)
	if err := opts.Parse(flag.CommandLine, os.Args[1:]); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if *opts.Help {
		fmt.Println("Shader Thoughts gallery")
		flag.PrintDefaults()
		return
	}

	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
