// Package main is the entry point for the RendAR viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/rendar/internal/app"
	"github.com/Faultbox/rendar/internal/config"
	"github.com/Faultbox/rendar/internal/engine/debug"
	"github.com/Faultbox/rendar/internal/engine/gpu"
	"github.com/Faultbox/rendar/internal/engine/input"
	"github.com/Faultbox/rendar/internal/engine/renderer"
	"github.com/Faultbox/rendar/internal/engine/scene"
	"github.com/Faultbox/rendar/internal/engine/shader"
	"github.com/Faultbox/rendar/internal/engine/shader/shaders"
	"github.com/Faultbox/rendar/internal/engine/texture"
	"github.com/Faultbox/rendar/internal/engine/window"
	"github.com/Faultbox/rendar/internal/logger"
	"github.com/Faultbox/rendar/internal/tracking"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Saving config: %v\n", err)
			return 1
		}
		fmt.Println(path)
		return 0
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.With(zap.String("session", uuid.NewString()))
	logger.Info("=== RendAR ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	state, loop, err := setup(cfg)
	if state != nil {
		defer func() {
			if err := state.Close(); err != nil {
				logger.Error("shutdown incomplete", zap.Error(err))
			}
		}()
	}
	if err != nil {
		if errors.Is(err, tracking.ErrNoDevice) {
			logger.Error("image source device not found", zap.String("dir", cfg.Source.Dir), zap.Error(err))
		} else {
			logger.Error("startup failed", zap.Error(err))
		}
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx); err != nil {
		logger.Error("frame loop error", zap.Error(err))
		return 1
	}

	logger.Info("closed normally")
	return 0
}

// setup acquires every resource in order and registers each with the state
// as soon as it exists, so a failure part way releases what was acquired.
// The returned state is non-nil once the image source is open.
func setup(cfg *config.Config) (*app.State, *app.Loop, error) {
	conv, err := tracking.ParseConvention(cfg.Tracking.Convention)
	if err != nil {
		return nil, nil, err
	}

	source, err := tracking.OpenSequence(tracking.SequenceConfig{
		Dir:          cfg.Source.Dir,
		RGBPattern:   cfg.Source.RGBPattern,
		DepthPattern: cfg.Source.DepthPattern,
		Calibration:  cfg.Source.Calibration,
	})
	if err != nil {
		return nil, nil, err
	}

	engine, err := tracking.NewReplayEngine(
		tracking.Settings{Trajectory: cfg.Tracking.Trajectory},
		source.Calibration(), source.RGBSize(), source.DepthSize(),
	)
	if err != nil {
		source.Close()
		return nil, nil, fmt.Errorf("creating tracking engine: %w", err)
	}

	// The scene is attached once it exists; until then the state only owns closers.
	state := app.NewState(nil, source, engine, conv)
	state.Own("image source", source.Close)
	state.Own("tracking engine", engine.Close)

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return state, nil, fmt.Errorf("failed to create window: %w", err)
	}
	state.Own("window", closeFunc(win.Close))

	// Renderer AFTER window, since OpenGL context must exist
	width, height := win.DrawableSize()
	rend, err := renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Scene.ClearColor,
	})
	if err != nil {
		return state, nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	state.Own("renderer", closeFunc(rend.Close))

	dev := gpu.NewGL()
	lit, err := shader.Load(dev, shaders.LitVertexShader, shaders.LitFragmentShader)
	if err != nil {
		return state, nil, fmt.Errorf("lit program: %w", err)
	}
	state.Own("lit program", closeFunc(lit.Delete))
	flat, err := shader.Load(dev, shaders.FlatVertexShader, shaders.FlatFragmentShader)
	if err != nil {
		return state, nil, fmt.Errorf("flat program: %w", err)
	}
	state.Own("flat program", closeFunc(flat.Delete))

	var floorTextures []scene.Texture
	if cfg.Scene.FloorTexture != "" {
		tex, err := texture.Load(dev, cfg.Scene.FloorTexture, scene.Diffuse)
		if err != nil {
			logger.Warn("floor texture not loaded", zap.Error(err))
		} else {
			floorTextures = append(floorTextures, tex)
		}
	}

	demo, err := app.BuildDemo(dev, app.Programs{Lit: lit, Flat: flat}, cfg.Camera, cfg.Scene, floorTextures)
	if err != nil {
		return state, nil, fmt.Errorf("building scene: %w", err)
	}
	state.Scene = demo.Scene
	state.Animators = demo.Animators
	state.Own("scene", closeFunc(demo.Scene.Close))

	loop := &app.Loop{
		State:       state,
		Window:      win,
		Input:       input.New(),
		Renderer:    rend,
		Screenshots: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "rendar"),
	}
	return state, loop, nil
}

func closeFunc(f func()) func() error {
	return func() error {
		f()
		return nil
	}
}
