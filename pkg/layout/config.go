package layout

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/strata/pkg/dag/transform"
	"github.com/matzehuels/strata/pkg/errors"
)

// Config holds every tunable of a layout computation. It is passed in
// explicitly; nothing is read from the environment.
type Config struct {
	// HorizontalSpacing is the minimum distance between neighbours in a rank.
	HorizontalSpacing float64 `json:"horizontal_spacing" toml:"horizontal_spacing" yaml:"horizontal_spacing" validate:"gt=0"`
	// VerticalSpacing is the distance between consecutive ranks.
	VerticalSpacing float64 `json:"vertical_spacing" toml:"vertical_spacing" yaml:"vertical_spacing" validate:"gt=0"`

	MaxPasses      int  `json:"max_passes" toml:"max_passes" yaml:"max_passes" validate:"min=1,max=1000"`
	Transpose      bool `json:"transpose" toml:"transpose" yaml:"transpose"`
	PostStraighten bool `json:"post_straighten" toml:"post_straighten" yaml:"post_straighten"`
	EarlyStop      bool `json:"early_stop" toml:"early_stop" yaml:"early_stop"`

	// Layering selects the row assignment: longest-path, top-down or
	// coffman-graham.
	Layering string `json:"layering" toml:"layering" yaml:"layering" validate:"oneof=longest-path top-down coffman-graham"`
	// MaxWidth bounds the rank width for coffman-graham. Zero is unbounded.
	MaxWidth int `json:"max_width" toml:"max_width" yaml:"max_width" validate:"min=0"`

	// LargeGraphEdges caps the sweep passes at LargeGraphMaxPasses once the
	// layered graph has more edges. Zero disables the cap.
	LargeGraphEdges     int `json:"large_graph_edges" toml:"large_graph_edges" yaml:"large_graph_edges" validate:"min=0"`
	LargeGraphMaxPasses int `json:"large_graph_max_passes" toml:"large_graph_max_passes" yaml:"large_graph_max_passes" validate:"min=0"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		HorizontalSpacing:   40,
		VerticalSpacing:     60,
		MaxPasses:           24,
		Transpose:           true,
		Layering:            string(transform.LayeringLongestPath),
		LargeGraphEdges:     1000,
		LargeGraphMaxPasses: 4,
	}
}

// validate is a singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// Validate checks every field and reports all violations in one
// ErrCodeInvalidConfig error.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid layout config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, describe(e))
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid layout config: %s", strings.Join(msgs, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "gt":
		return e.Field() + ": must be greater than " + e.Param()
	case "min":
		return e.Field() + ": must be at least " + e.Param()
	case "max":
		return e.Field() + ": must not exceed " + e.Param()
	case "oneof":
		return e.Field() + ": must be one of " + strings.ReplaceAll(e.Param(), " ", ", ")
	default:
		return e.Field() + ": validation failed (" + e.Tag() + ")"
	}
}

// LoadConfig reads a TOML or YAML file on top of [DefaultConfig] and
// validates the result. The format is chosen by extension.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, errors.New(errors.ErrCodeUnsupported, "config format %q not supported (use .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}
