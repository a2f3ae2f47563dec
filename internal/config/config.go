// Package config loads service configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// STORE_MAP_VISION_CANNY_LOW=40.
const EnvPrefix = "STORE_MAP"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Vision   VisionConfig   `mapstructure:"vision"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Registry RegistryConfig `mapstructure:"registry"`
	OCR      OCRConfig      `mapstructure:"ocr"`
}

type ServerConfig struct {
	Mode         string        `mapstructure:"mode"`
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// VisionConfig holds the detection thresholds. Zero values fall back to the
// detection package defaults.
type VisionConfig struct {
	InitTimeout  time.Duration `mapstructure:"init_timeout"`
	BlurKernel   int           `mapstructure:"blur_kernel"`
	CannyLow     float64       `mapstructure:"canny_low"`
	CannyHigh    float64       `mapstructure:"canny_high"`
	MinArea      float64       `mapstructure:"min_area"`
	EpsilonRatio float64       `mapstructure:"epsilon_ratio"`
	IoUThreshold float64       `mapstructure:"iou_threshold"`
}

type UploadConfig struct {
	MaxSize int64 `mapstructure:"max_size"`
	MaxSide int   `mapstructure:"max_side"`
	PDFDPI  int   `mapstructure:"pdf_dpi"`
}

// RegistryConfig selects where shelf names come from. Kind is one of
// "memory", "file" or "redis".
type RegistryConfig struct {
	Kind          string            `mapstructure:"kind"`
	Path          string            `mapstructure:"path"`
	Names         map[string]string `mapstructure:"names"`
	RedisAddr     string            `mapstructure:"redis_addr"`
	RedisPassword string            `mapstructure:"redis_password"`
	RedisDB       int               `mapstructure:"redis_db"`
	RedisKey      string            `mapstructure:"redis_key"`
}

type OCRConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Language string `mapstructure:"language"`
}

// Load reads configPath (YAML) and applies environment overrides. An empty
// path loads defaults plus environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// New loads configPath and falls back to Default when the file cannot be read.
func New(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects combinations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Vision.BlurKernel != 0 && c.Vision.BlurKernel%2 == 0 {
		return fmt.Errorf("vision.blur_kernel must be odd, got %d", c.Vision.BlurKernel)
	}
	if c.Vision.CannyLow > c.Vision.CannyHigh {
		return fmt.Errorf("vision.canny_low (%v) exceeds vision.canny_high (%v)", c.Vision.CannyLow, c.Vision.CannyHigh)
	}
	if c.Vision.IoUThreshold < 0 || c.Vision.IoUThreshold > 1 {
		return fmt.Errorf("vision.iou_threshold must be within [0,1], got %v", c.Vision.IoUThreshold)
	}
	switch c.Registry.Kind {
	case "", "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown registry.kind %q", c.Registry.Kind)
	}
	if c.Registry.Kind == "file" && c.Registry.Path == "" {
		return errors.New("registry.path is required for registry.kind=file")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("vision.init_timeout", d.Vision.InitTimeout)
	v.SetDefault("vision.blur_kernel", d.Vision.BlurKernel)
	v.SetDefault("vision.canny_low", d.Vision.CannyLow)
	v.SetDefault("vision.canny_high", d.Vision.CannyHigh)
	v.SetDefault("vision.min_area", d.Vision.MinArea)
	v.SetDefault("vision.epsilon_ratio", d.Vision.EpsilonRatio)
	v.SetDefault("vision.iou_threshold", d.Vision.IoUThreshold)

	v.SetDefault("upload.max_size", d.Upload.MaxSize)
	v.SetDefault("upload.max_side", d.Upload.MaxSide)
	v.SetDefault("upload.pdf_dpi", d.Upload.PDFDPI)

	v.SetDefault("registry.kind", d.Registry.Kind)
	v.SetDefault("registry.redis_addr", d.Registry.RedisAddr)
	v.SetDefault("registry.redis_key", d.Registry.RedisKey)

	v.SetDefault("ocr.enabled", d.OCR.Enabled)
	v.SetDefault("ocr.language", d.OCR.Language)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Mode:         "debug",
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Vision: VisionConfig{
			InitTimeout:  10 * time.Second,
			BlurKernel:   5,
			CannyLow:     50,
			CannyHigh:    150,
			MinArea:      100,
			EpsilonRatio: 0.01,
			IoUThreshold: 0.9,
		},
		Upload: UploadConfig{
			MaxSize: 20 * 1024 * 1024,
			MaxSide: 8000,
			PDFDPI:  150,
		},
		Registry: RegistryConfig{
			Kind:      "memory",
			RedisAddr: "localhost:6379",
			RedisKey:  "storemap:shelves",
		},
		OCR: OCRConfig{
			Enabled:  false,
			Language: "eng",
		},
	}
}
