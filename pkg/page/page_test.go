package page

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/glitchzine/pkg/errors"
)

func TestDefaultPageGolden(t *testing.T) {
	content := `<span>kotel</span> <span class="effect-reverse" title="Original: gudit">tidug</span>`

	got, err := Assemble(DefaultTemplate(), map[string]string{ContentPlaceholder: content})
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "default_page", []byte(got))
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
		want []string
	}{
		{"default", DefaultTemplate(), []string{"content"}},
		{"none", "<p>static</p>", nil},
		{"order and duplicates", "{{b}} {{a}} {{b}} {{issue_2}} {{x-y}}", []string{"b", "a", "issue_2", "x-y"}},
		{"malformed ignored", "{{ spaced }} {{}} {single} {{ok}}", []string{"ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Placeholders(tt.tpl)); diff != "" {
				t.Errorf("Placeholders mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssemble(t *testing.T) {
	tpl := "<h1>{{title}}</h1>{{a}}|{{b}}|{{a}}"

	got, err := Assemble(tpl, map[string]string{"a": "A", "b": "{{title}}"})
	require.NoError(t, err)
	// Substituted text is not expanded again.
	assert.Equal(t, "<h1>{{title}}</h1>A|{{title}}|A", got)
	assert.Equal(t, []string{"title"}, Unfilled(tpl, map[string]string{"a": "A", "b": "B"}))
	assert.Empty(t, Unfilled(tpl, map[string]string{"a": "", "b": "", "title": ""}))
}

func TestAssembleRejectsUnknownPlaceholder(t *testing.T) {
	_, err := Assemble(DefaultTemplate(), map[string]string{"content": "x", "sidebar": "y"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTemplate))
	assert.Contains(t, err.Error(), "sidebar")

	_, err = Assemble(DefaultTemplate(), map[string]string{"bad name": "y"})
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestWriteCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", "nested", "index.html")

	require.NoError(t, Write(path, "<html></html>"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestWriteFailsOnFileParent(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "public")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

	err := Write(filepath.Join(blocker, "index.html"), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeIO))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kotel.txt")
	// Decomposed "й" (и + breve) comes back composed.
	require.NoError(t, os.WriteFile(path, []byte("мо\u0438\u0306 котел"), 0o644))

	text, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "мо\u0439 котел", text)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.txt"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = Read(dir)
	assert.True(t, errors.Is(err, errors.ErrCodeIO))

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe}, 0o644))
	_, err = Read(bad)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = Read("")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath))
}

func TestWriteTo(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteTo(&b, "page"))
	assert.Equal(t, "page", b.String())
}
