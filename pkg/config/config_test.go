package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/glitchzine/pkg/effect"
	"github.com/matzehuels/glitchzine/pkg/errors"
	"github.com/matzehuels/glitchzine/pkg/progression"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvOutput, "")
	t.Setenv(EnvDebug, "")
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join("testdata", "zine.toml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.Debug)
	assert.False(t, cfg.DebugVerbose)
	assert.Equal(t, progression.Curve{Threshold: 0.5, MaxChance: 0.9}, cfg.Curve())
	assert.Equal(t, uint64(1234), cfg.Seed)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, filepath.Join("testdata", "public", "index.html"), cfg.Output)
	assert.Equal(t, []string{"content", "afterword"}, cfg.Placeholders())

	require.Len(t, cfg.Issues, 2)
	assert.Equal(t, filepath.Join("testdata", "input", "kotel_2.txt"), cfg.Issues[0].Path)
	assert.Equal(t, "auto", cfg.Issues[0].Format)
	assert.True(t, cfg.Issues[0].Transforms())
	assert.Equal(t, "html", cfg.Issues[1].Format)
	assert.False(t, cfg.Issues[1].Transforms())

	want := []effect.Spec{
		{Name: "reverse", Probability: 1},
		{Name: "corrupt", Probability: DefaultProbability, Step: 0.05},
	}
	if diff := cmp.Diff(want, cfg.Specs()); diff != "" {
		t.Errorf("specs mismatch (-want +got):\n%s", diff)
	}

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"reverse", "corrupt"}, reg.Names())
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join("testdata", "zine.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.DebugVerbose)
	assert.Equal(t, 0.25, cfg.ProgressionThreshold)
	assert.Equal(t, progression.DefaultMaxChance, cfg.MaxEffectChance)
	assert.Equal(t, filepath.Join("testdata", "templates", "page.html"), cfg.Template)
	assert.Equal(t, "/srv/zine/kotel.txt", cfg.Issues[0].Path)

	// No [[effects]] means the default catalog.
	if diff := cmp.Diff(effect.DefaultSpecs, cfg.Specs()); diff != "" {
		t.Errorf("specs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "missing file: %v", err)

	ini := filepath.Join(dir, "zine.ini")
	require.NoError(t, os.WriteFile(ini, []byte("x=1"), 0o644))
	_, err = Load(ini)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "unsupported extension: %v", err)

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("seed = ["), 0o644))
	_, err = Load(broken)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "syntax error: %v", err)

	_, err = Load(filepath.Join("testdata", "unknown.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_chance")

	yml := filepath.Join(dir, "unknown.yml")
	require.NoError(t, os.WriteFile(yml, []byte("treshold: 0.5\n"), 0o644))
	_, err = Load(yml)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "unknown yaml key: %v", err)
}

func TestLoadEmptyYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, progression.DefaultCurve(), cfg.Curve())
	assert.Error(t, cfg.Validate(), "no issues")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvOutput, "out/zine.html")
	t.Setenv(EnvDebug, "true")

	cfg, err := Load(filepath.Join("testdata", "zine.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "out/zine.html", cfg.Output)
	assert.True(t, cfg.Debug)
}

func validConfig() *Config {
	cfg := Default()
	cfg.Issues = []Issue{{Placeholder: "content", Path: "kotel.txt"}}
	cfg.SetDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"threshold zero", func(c *Config) { c.ProgressionThreshold = 0 }, errors.ErrCodeInvalidConfig},
		{"chance above one", func(c *Config) { c.MaxEffectChance = 1.5 }, errors.ErrCodeInvalidConfig},
		{"negative concurrency", func(c *Config) { c.Concurrency = -2 }, errors.ErrCodeInvalidConfig},
		{"empty output", func(c *Config) { c.Output = " " }, errors.ErrCodeInvalidPath},
		{"no issues", func(c *Config) { c.Issues = nil }, errors.ErrCodeInvalidConfig},
		{"bad placeholder", func(c *Config) { c.Issues[0].Placeholder = "a b" }, errors.ErrCodeInvalidTemplate},
		{"duplicate placeholder", func(c *Config) {
			c.Issues = append(c.Issues, Issue{Placeholder: "content", Path: "b.txt", Format: "auto"})
		}, errors.ErrCodeInvalidConfig},
		{"empty issue path", func(c *Config) { c.Issues[0].Path = "" }, errors.ErrCodeInvalidPath},
		{"unknown format", func(c *Config) { c.Issues[0].Format = "pdf" }, errors.ErrCodeInvalidFormat},
		{"unknown effect", func(c *Config) { c.Effects = []Effect{{Name: "melt"}} }, errors.ErrCodeInvalidEffect},
		{"probability out of range", func(c *Config) {
			p := 2.0
			c.Effects = []Effect{{Name: "reverse", Probability: &p}}
		}, errors.ErrCodeInvalidEffect},
	}

	require.NoError(t, validConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
			assert.True(t, errors.IsConfig(err))
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := &Config{
		Template: "tpl.html",
		Output:   "/abs/index.html",
		Issues:   []Issue{{Path: "in/a.txt"}, {Path: ""}},
	}
	cfg.Resolve("site")

	assert.Equal(t, filepath.Join("site", "tpl.html"), cfg.Template)
	assert.Equal(t, "/abs/index.html", cfg.Output)
	assert.Equal(t, filepath.Join("site", "in", "a.txt"), cfg.Issues[0].Path)
	assert.Equal(t, "", cfg.Issues[1].Path)

	same := &Config{Output: "x.html"}
	same.Resolve(".")
	assert.Equal(t, "x.html", same.Output)
}

func TestTemplateSource(t *testing.T) {
	cfg := validConfig()
	tpl, err := cfg.TemplateSource()
	require.NoError(t, err)
	assert.Contains(t, tpl, "{{content}}")

	cfg.Template = filepath.Join(t.TempDir(), "missing.html")
	_, err = cfg.TemplateSource()
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}
