// Package config handles application configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Source   SourceConfig   `yaml:"source"`
	Tracking TrackingConfig `yaml:"tracking"`
	Scene    SceneConfig    `yaml:"scene"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds the projection parameters and the initial eye position
// used until the tracker delivers its first pose.
type CameraConfig struct {
	FOV      float32    `yaml:"fov"` // Vertical field of view, degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
}

// SourceConfig describes the recorded RGB-D image sequence.
type SourceConfig struct {
	Dir          string `yaml:"dir"`
	RGBPattern   string `yaml:"rgb_pattern"`   // printf pattern with one integer verb
	DepthPattern string `yaml:"depth_pattern"` // printf pattern with one integer verb
	Calibration  string `yaml:"calibration"`   // Path to calibration YAML, empty for defaults
}

// TrackingConfig holds tracking engine settings.
type TrackingConfig struct {
	Trajectory string `yaml:"trajectory"` // TUM-format pose file replayed by the engine
	Convention string `yaml:"convention"` // "cv" (y down, z forward) or "gl"
}

// SceneConfig holds demo scene settings.
type SceneConfig struct {
	ClearColor   [3]float32 `yaml:"clear_color"`
	FloorTexture string     `yaml:"floor_texture"`
	SpinRate     float32    `yaml:"spin_rate"` // Degrees per second about X for the spinning cube
}

// DebugConfig holds debugging aids.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "RendAR",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FOV:      45,
			Near:     0.1,
			Far:      100,
			Position: [3]float32{0, 3, 3},
		},
		Source: SourceConfig{
			Dir:          "data",
			RGBPattern:   "rgb/%04d.png",
			DepthPattern: "depth/%04d.png",
		},
		Tracking: TrackingConfig{
			Trajectory: "data/trajectory.txt",
			Convention: "cv",
		},
		Scene: SceneConfig{
			ClearColor: [3]float32{0, 0, 0},
			SpinRate:   1,
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
