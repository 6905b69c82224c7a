// Package config loads the TOML file that configures the framegraph tool. Every key is
// optional; missing keys keep the value Default returns and unknown keys are rejected.
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/framegraph/graph"
	"github.com/vkngwrapper/framegraph/passes"
)

var ErrInvalidConfig = errors.New("invalid config")

var formatNames = map[string]core1_0.Format{
	"B8G8R8A8SRGB":                       core1_0.FormatB8G8R8A8SRGB,
	"B8G8R8A8UnsignedNormalized":         core1_0.FormatB8G8R8A8UnsignedNormalized,
	"R8G8B8A8SRGB":                       core1_0.FormatR8G8B8A8SRGB,
	"R8G8B8A8UnsignedNormalized":         core1_0.FormatR8G8B8A8UnsignedNormalized,
	"R16G16B16A16SignedFloat":            core1_0.FormatR16G16B16A16SignedFloat,
	"R32G32B32A32SignedFloat":            core1_0.FormatR32G32B32A32SignedFloat,
	"D16UnsignedNormalized":              core1_0.FormatD16UnsignedNormalized,
	"D32SignedFloat":                     core1_0.FormatD32SignedFloat,
	"D24UnsignedNormalizedS8UnsignedInt": core1_0.FormatD24UnsignedNormalizedS8UnsignedInt,
	"D32SignedFloatS8UnsignedInt":        core1_0.FormatD32SignedFloatS8UnsignedInt,
}

// FormatNames lists every format name a config may use, sorted
func FormatNames() []string {
	names := make([]string, 0, len(formatNames))
	for name := range formatNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseFormat looks up a format by the name of its core1_0 constant, without the Format prefix
func ParseFormat(name string) (core1_0.Format, error) {
	format, ok := formatNames[strings.TrimPrefix(name, "Format")]
	if !ok {
		return 0, errors.Mark(errors.Newf("unknown format %q", name), ErrInvalidConfig)
	}
	return format, nil
}

type Renderer struct {
	// FrameCount is the number of frames in flight
	FrameCount   int    `toml:"frame_count"`
	DebugLabels  bool   `toml:"debug_labels"`
	ValidatePlan bool   `toml:"validate_plan"`
	DepthFormat  string `toml:"depth_format"`
	HDRFormat    string `toml:"hdr_format"`
}

type Surface struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	ImageCount int    `toml:"image_count"`
	Format     string `toml:"format"`
}

type Passes struct {
	DrawCount     int     `toml:"draw_count"`
	WorkgroupSize int     `toml:"workgroup_size"`
	BloomScale    float32 `toml:"bloom_scale"`
}

type Logging struct {
	// Level is one of debug, info, warn or error
	Level string `toml:"level"`
	// JSON selects the json handler over the text handler
	JSON bool `toml:"json"`
}

// Config is the whole file
type Config struct {
	Renderer Renderer `toml:"renderer"`
	Surface  Surface  `toml:"surface"`
	Passes   Passes   `toml:"passes"`
	Logging  Logging  `toml:"logging"`
}

// Default returns the config used for every key a file leaves out
func Default() Config {
	settings := passes.DefaultSettings()

	return Config{
		Renderer: Renderer{
			FrameCount:   2,
			ValidatePlan: true,
			DepthFormat:  "D32SignedFloat",
			HDRFormat:    "R16G16B16A16SignedFloat",
		},
		Surface: Surface{
			Width:      1280,
			Height:     720,
			ImageCount: 3,
			Format:     "B8G8R8A8SRGB",
		},
		Passes: Passes{
			DrawCount:     settings.DrawCount,
			WorkgroupSize: settings.WorkgroupSize,
			BloomScale:    settings.BloomScale,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads and validates the config file at path
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to open config %s", path)
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to load config %s", path)
	}
	return cfg, nil
}

// Parse decodes a config over the defaults and validates the result
func Parse(reader io.Reader) (Config, error) {
	cfg := Default()

	err := toml.NewDecoder(reader).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		var decodeErr *toml.DecodeError
		var strictErr *toml.StrictMissingError
		switch {
		case errors.As(err, &decodeErr):
			row, column := decodeErr.Position()
			err = errors.Wrapf(err, "line %d column %d", row, column)
		case errors.As(err, &strictErr):
			err = errors.Newf("unknown keys:\n%s", strictErr.String())
		}
		return Config{}, errors.Mark(err, ErrInvalidConfig)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the config as TOML
func (c Config) Encode(writer io.Writer) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	_, err = io.Copy(writer, bytes.NewReader(data))
	return err
}

func (c Config) Validate() error {
	var err error

	if c.Renderer.FrameCount < 1 {
		err = errors.CombineErrors(err, errors.Newf("renderer.frame_count must be at least 1, but was %d", c.Renderer.FrameCount))
	}
	if c.Surface.Width < 1 || c.Surface.Height < 1 {
		err = errors.CombineErrors(err, errors.Newf("surface must be at least 1x1, but was %dx%d", c.Surface.Width, c.Surface.Height))
	}
	if c.Surface.ImageCount < 1 {
		err = errors.CombineErrors(err, errors.Newf("surface.image_count must be at least 1, but was %d", c.Surface.ImageCount))
	}

	for _, name := range []string{c.Renderer.DepthFormat, c.Renderer.HDRFormat, c.Surface.Format} {
		_, formatErr := ParseFormat(name)
		err = errors.CombineErrors(err, formatErr)
	}

	_, levelErr := c.Logging.level()
	err = errors.CombineErrors(err, levelErr)
	err = errors.CombineErrors(err, c.PassSettings().Validate())

	if err != nil {
		return errors.Mark(err, ErrInvalidConfig)
	}
	return nil
}

// RendererOptions converts the renderer section. The config must have been validated.
func (c Config) RendererOptions() graph.Options {
	var flags graph.CreateFlags
	if c.Renderer.DebugLabels {
		flags |= graph.RendererCreateDebugLabels
	}
	if c.Renderer.ValidatePlan {
		flags |= graph.RendererCreateValidatePlan
	}

	depth, _ := ParseFormat(c.Renderer.DepthFormat)
	hdr, _ := ParseFormat(c.Renderer.HDRFormat)

	return graph.Options{
		Flags:       flags,
		FrameCount:  c.Renderer.FrameCount,
		DepthFormat: depth,
		HDRFormat:   hdr,
	}
}

func (c Config) PassSettings() passes.Settings {
	return passes.Settings{
		DrawCount:     c.Passes.DrawCount,
		WorkgroupSize: c.Passes.WorkgroupSize,
		BloomScale:    c.Passes.BloomScale,
	}
}

func (c Config) Extent() core1_0.Extent2D {
	return core1_0.Extent2D{Width: c.Surface.Width, Height: c.Surface.Height}
}

func (c Config) SurfaceFormat() core1_0.Format {
	format, _ := ParseFormat(c.Surface.Format)
	return format
}

func (l Logging) level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return 0, errors.Newf("unknown logging.level %q", l.Level)
	}
	return level, nil
}

// Logger builds the logger the logging section describes
func (c Config) Logger(writer io.Writer) *slog.Logger {
	level, _ := c.Logging.level()
	options := &slog.HandlerOptions{Level: level}

	if c.Logging.JSON {
		return slog.New(slog.NewJSONHandler(writer, options))
	}
	return slog.New(slog.NewTextHandler(writer, options))
}
