package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/polyorbit/internal/generate"
)

const (
	DefaultWidth    = 1280
	DefaultHeight   = 720
	DefaultFPS      = 60
	DefaultTheme    = "classic"
	DefaultSettings = "settings.ini"

	DefaultSpeed          = 1.0
	DefaultSustainRelease = 0.5
	MinSpeed              = 0.1
	MaxSpeed              = 10.0
	MinSustainRelease     = 0.1
	MaxSustainRelease     = 2.0

	MinZoom  = 0.01
	MaxZoom  = 10.0
	ZoomStep = 1.1

	DefaultSampleRate   = 44100
	DefaultBufferFrames = 1024
	DefaultVolume       = 0.8

	DefaultChunkSeconds = 19.0
)

type Config struct {
	Settings   string           `yaml:"settings"`
	DataDir    string           `yaml:"data_dir"`
	LogLevel   string           `yaml:"log_level"`
	Seed       int64            `yaml:"seed"`
	Window     WindowConfig     `yaml:"window"`
	Simulation SimulationConfig `yaml:"simulation"`
	Zoom       ZoomConfig       `yaml:"zoom"`
	Audio      AudioConfig      `yaml:"audio"`
	Recording  RecordingConfig  `yaml:"recording"`
	Generator  generate.Params  `yaml:"generator"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Theme  string `yaml:"theme"`
}

type SimulationConfig struct {
	Speed             float64 `yaml:"speed"`
	SustainRelease    float64 `yaml:"sustain_release"`
	MinSpeed          float64 `yaml:"min_speed"`
	MaxSpeed          float64 `yaml:"max_speed"`
	MinSustainRelease float64 `yaml:"min_sustain_release"`
	MaxSustainRelease float64 `yaml:"max_sustain_release"`
}

type ZoomConfig struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	SampleRate   int     `yaml:"sample_rate"`
	BufferFrames int     `yaml:"buffer_frames"`
	Volume       float64 `yaml:"volume"`
}

type RecordingConfig struct {
	Dir          string  `yaml:"dir"`
	ChunkSeconds float64 `yaml:"chunk_seconds"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: DefaultSettings,
		DataDir:  "data",
		LogLevel: "info",
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
			Theme:  DefaultTheme,
		},
		Simulation: SimulationConfig{
			Speed:             DefaultSpeed,
			SustainRelease:    DefaultSustainRelease,
			MinSpeed:          MinSpeed,
			MaxSpeed:          MaxSpeed,
			MinSustainRelease: MinSustainRelease,
			MaxSustainRelease: MaxSustainRelease,
		},
		Zoom: ZoomConfig{
			Min:  MinZoom,
			Max:  MaxZoom,
			Step: ZoomStep,
		},
		Audio: AudioConfig{
			Enabled:      true,
			SampleRate:   DefaultSampleRate,
			BufferFrames: DefaultBufferFrames,
			Volume:       DefaultVolume,
		},
		Recording: RecordingConfig{
			Dir:          ".",
			ChunkSeconds: DefaultChunkSeconds,
		},
		Generator: generate.DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load that treats a missing file as the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Center() (float64, float64) {
	return float64(c.Window.Width) / 2, float64(c.Window.Height) / 2
}

// ClampSpeed keeps a speed multiplier inside the slider bounds.
func (c *Config) ClampSpeed(v float64) float64 {
	return clamp(v, c.Simulation.MinSpeed, c.Simulation.MaxSpeed)
}

func (c *Config) ClampSustainRelease(v float64) float64 {
	return clamp(v, c.Simulation.MinSustainRelease, c.Simulation.MaxSustainRelease)
}

func (c *Config) ClampZoom(v float64) float64 {
	return clamp(v, c.Zoom.Min, c.Zoom.Max)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
