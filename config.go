package lookbook

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Window   WindowConfig  `yaml:"window"`
	Viewer   ViewerConfig  `yaml:"viewer"`
	Products ProductConfig `yaml:"products"`
	Images   ImageConfig   `yaml:"images"`
	Logger   LoggerConfig  `yaml:"logger"`
	Script   ScriptConfig  `yaml:"script"`
	Debug    bool          `yaml:"debug"`
}

// WindowConfig sizes the game window.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width" validate:"gte=640"`
	Height    int    `yaml:"height" validate:"gte=480"`
	Resizable bool   `yaml:"resizable"`
}

// ViewerConfig describes the model viewer.
type ViewerConfig struct {
	// ModelImage is a path or URL for the background. Empty draws a
	// mannequin silhouette.
	ModelImage string `yaml:"model_image"`
	// ElementSize is the unscaled edge length of a product element.
	ElementSize float64 `yaml:"element_size" validate:"gt=0"`
}

// ProductConfig controls product creation.
type ProductConfig struct {
	Types      []string `yaml:"types" validate:"min=1,dive,required"`
	InitialX   float64  `yaml:"initial_x"`
	InitialY   float64  `yaml:"initial_y"`
	IDStrategy string   `yaml:"id_strategy" validate:"oneof=snowflake uuid"`
}

// ImageConfig controls image fetching.
type ImageConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxBytes  int64         `yaml:"max_bytes" validate:"gte=0"`
	UserAgent string        `yaml:"user_agent"`
	// Workers bounds concurrent fetches. Zero uses the default.
	Workers int `yaml:"workers" validate:"gte=0"`
}

// LoggerConfig selects log format and optional file output.
type LoggerConfig struct {
	Mode       string `yaml:"mode" validate:"oneof=production development"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename" validate:"required_if=FileEnable true"`
}

// ScriptConfig replays a recorded input script on start.
type ScriptConfig struct {
	Path          string `yaml:"path"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	ExitWhenDone  bool   `yaml:"exit_when_done"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Lookbook",
			Width:  1120,
			Height: 720,
		},
		Viewer: ViewerConfig{
			ElementSize: DefaultElementSize,
		},
		Products: ProductConfig{
			Types:      []string{"top", "bottom", "dress", "shoes", "hat", "accessory"},
			InitialX:   DefaultOrigin.X,
			InitialY:   DefaultOrigin.Y,
			IDStrategy: IDStrategySnowflake,
		},
		Images: ImageConfig{
			Timeout:   15 * time.Second,
			MaxBytes:  20 << 20,
			UserAgent: "lookbook/1.0",
			Workers:   defaultImageWorkers,
		},
		Logger: LoggerConfig{
			Mode:     "development",
			Filename: "lookbook.log",
		},
		Script: ScriptConfig{
			ScreenshotDir: "screenshots",
		},
	}
}

// LoadConfig reads a YAML file over the defaults, then applies LOOKBOOK_*
// environment overrides. An empty path or a missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrapf(err, "parse config %s", path)
			}
		case os.IsNotExist(err):
		default:
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from environment variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("LOOKBOOK_MODEL_IMAGE"); ok {
		cfg.Viewer.ModelImage = v
	}
	if v, ok := lookup("LOOKBOOK_LOG_MODE"); ok {
		cfg.Logger.Mode = v
	}
	if v, ok := lookup("LOOKBOOK_ID_STRATEGY"); ok {
		cfg.Products.IDStrategy = v
	}
	if v, ok := lookup("LOOKBOOK_SCRIPT"); ok {
		cfg.Script.Path = v
	}
	if v, ok := lookup("LOOKBOOK_WIDTH"); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return errors.Wrap(err, "LOOKBOOK_WIDTH")
		}
		cfg.Window.Width = n
	}
	if v, ok := lookup("LOOKBOOK_HEIGHT"); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return errors.Wrap(err, "LOOKBOOK_HEIGHT")
		}
		cfg.Window.Height = n
	}
	if v, ok := lookup("LOOKBOOK_DEBUG"); ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return errors.Wrap(err, "LOOKBOOK_DEBUG")
		}
		cfg.Debug = b
	}
	if v, ok := lookup("LOOKBOOK_IMAGE_TIMEOUT"); ok {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return errors.Wrap(err, "LOOKBOOK_IMAGE_TIMEOUT")
		}
		cfg.Images.Timeout = d
	}
	return nil
}

// configValidator checks the validate tags above. The window minimum keeps
// the side panel and the viewer usable.
var configValidator = validator.New()

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		f := fields[0]
		if f.Param() != "" {
			return errors.Errorf("invalid config %s: %v fails %s=%s", f.Namespace(), f.Value(), f.Tag(), f.Param())
		}
		return errors.Errorf("invalid config %s: %s", f.Namespace(), f.Tag())
	}
	return errors.Wrap(err, "validate config")
}
