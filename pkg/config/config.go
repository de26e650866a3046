// Package config loads and validates glitchzine build configuration.
//
// A configuration is read once before a build, adjusted by command-line
// overrides, validated, and then treated as read-only for the rest of the
// run. Files are TOML or YAML, picked by extension:
//
//	debug = false
//	max_effect_chance = 1.0
//	progression_threshold = 0.75
//	output = "public/index.html"
//
//	[[issues]]
//	placeholder = "content"
//	path = "input/kotel_2.txt"
//
//	[[effects]]
//	name = "translate"
//	probability = 0.1
//	step = 0.005
//
// Omitting [[effects]] selects the default catalog. Relative paths are
// resolved against the directory of the config file.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/glitchzine/pkg/effect"
	"github.com/matzehuels/glitchzine/pkg/errors"
	"github.com/matzehuels/glitchzine/pkg/page"
	"github.com/matzehuels/glitchzine/pkg/progression"
	"github.com/matzehuels/glitchzine/pkg/transform"
)

// Defaults.
const (
	DefaultFile        = "glitchzine.toml"
	DefaultOutput      = "public/index.html"
	DefaultProbability = 0.5 // base weight of an effect entry without one
)

// Environment overrides, applied by Load after decoding.
const (
	EnvOutput = "GLITCHZINE_OUTPUT"
	EnvDebug  = "GLITCHZINE_DEBUG"
)

// Config is a complete build configuration.
type Config struct {
	Debug                bool    `toml:"debug" yaml:"debug"`
	DebugVerbose         bool    `toml:"debug_verbose" yaml:"debug_verbose"`
	MaxEffectChance      float64 `toml:"max_effect_chance" yaml:"max_effect_chance"`
	ProgressionThreshold float64 `toml:"progression_threshold" yaml:"progression_threshold"`
	Seed                 uint64  `toml:"seed" yaml:"seed"`               // 0 draws a fresh seed
	Concurrency          int     `toml:"concurrency" yaml:"concurrency"` // 0 means NumCPU
	Template             string  `toml:"template" yaml:"template"`       // empty uses the built-in page
	Output               string  `toml:"output" yaml:"output"`

	Issues  []Issue  `toml:"issues" yaml:"issues"`
	Effects []Effect `toml:"effects" yaml:"effects"`
}

// Issue is one source document and the placeholder it fills.
type Issue struct {
	Placeholder string `toml:"placeholder" yaml:"placeholder"`
	Path        string `toml:"path" yaml:"path"`
	Format      string `toml:"format" yaml:"format"`
	Transform   *bool  `toml:"transform" yaml:"transform"`
}

// Transforms reports whether the issue is glitched. Unset means true.
func (i Issue) Transforms() bool {
	return i.Transform == nil || *i.Transform
}

// Effect configures one built-in effect. Unset probability is
// DefaultProbability; unset step is 0.
type Effect struct {
	Name        string   `toml:"name" yaml:"name"`
	Probability *float64 `toml:"probability" yaml:"probability"`
	Step        *float64 `toml:"step" yaml:"step"`
}

// Spec converts the entry into an effect spec with defaults applied.
func (e Effect) Spec() effect.Spec {
	s := effect.Spec{Name: e.Name, Probability: DefaultProbability}
	if e.Probability != nil {
		s.Probability = *e.Probability
	}
	if e.Step != nil {
		s.Step = *e.Step
	}
	return s
}

// Default returns a configuration with every scalar at its default and no
// issues.
func Default() *Config {
	return &Config{
		MaxEffectChance:      progression.DefaultMaxChance,
		ProgressionThreshold: progression.DefaultThreshold,
		Output:               DefaultOutput,
	}
}

// SetDefaults fills empty fields.
func (c *Config) SetDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if len(c.Effects) == 0 {
		c.Effects = make([]Effect, len(effect.DefaultSpecs))
		for i, s := range effect.DefaultSpecs {
			p, step := s.Probability, s.Step
			c.Effects[i] = Effect{Name: s.Name, Probability: &p, Step: &step}
		}
	}
	for i := range c.Issues {
		if c.Issues[i].Format == "" {
			c.Issues[i].Format = string(transform.FormatAuto)
		}
	}
}

// Load reads the config file at path, applies defaults, resolves relative
// paths against the file's directory, then applies environment overrides.
// The result is not validated.
func Load(path string) (*Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	cfg.SetDefaults()
	cfg.Resolve(filepath.Dir(path))
	cfg.applyEnvOverrides()
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if out := os.Getenv(EnvOutput); out != "" {
		c.Output = out
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
}

// Resolve makes relative template, output and issue paths relative to dir.
func (c *Config) Resolve(dir string) {
	if dir == "" || dir == "." {
		return
	}
	c.Template = resolve(dir, c.Template)
	c.Output = resolve(dir, c.Output)
	for i := range c.Issues {
		c.Issues[i].Path = resolve(dir, c.Issues[i].Path)
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Curve returns the fire-probability curve.
func (c *Config) Curve() progression.Curve {
	return progression.Curve{
		Threshold: c.ProgressionThreshold,
		MaxChance: c.MaxEffectChance,
	}
}

// Specs returns the effect entries with defaults applied, in order.
func (c *Config) Specs() []effect.Spec {
	if len(c.Effects) == 0 {
		return effect.DefaultSpecs
	}
	specs := make([]effect.Spec, len(c.Effects))
	for i, e := range c.Effects {
		specs[i] = e.Spec()
	}
	return specs
}

// Registry builds the effect registry.
func (c *Config) Registry() (*effect.Registry, error) {
	return effect.FromSpecs(c.Specs())
}

// Validate checks the whole configuration. Every error is a configuration
// error in the sense of errors.IsConfig.
func (c *Config) Validate() error {
	if err := c.Curve().Validate(); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be >= 0, got %d", c.Concurrency)
	}
	if err := errors.ValidatePath(c.Output); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "output")
	}
	if c.Template != "" {
		if err := errors.ValidatePath(c.Template); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "template")
		}
	}

	if len(c.Issues) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no issues configured")
	}
	seen := make(map[string]bool, len(c.Issues))
	for i, issue := range c.Issues {
		if err := errors.ValidatePlaceholder(issue.Placeholder); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "issues[%d]", i)
		}
		if seen[issue.Placeholder] {
			return errors.New(errors.ErrCodeInvalidConfig,
				"issues[%d]: placeholder %q used twice", i, issue.Placeholder)
		}
		seen[issue.Placeholder] = true
		if err := errors.ValidatePath(issue.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "issues[%d]", i)
		}
		if _, err := transform.ParseFormat(issue.Format); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "issues[%d]", i)
		}
	}

	_, err := c.Registry()
	return err
}

// Placeholders returns the issue placeholders in order.
func (c *Config) Placeholders() []string {
	names := make([]string, len(c.Issues))
	for i, issue := range c.Issues {
		names[i] = issue.Placeholder
	}
	return names
}

// TemplateSource returns the configured template text, or the built-in
// page when none is set.
func (c *Config) TemplateSource() (string, error) {
	if c.Template == "" {
		return page.DefaultTemplate(), nil
	}
	return page.Read(c.Template)
}
