package effect

import (
	"sort"

	"github.com/matzehuels/glitchzine/pkg/errors"
)

// Built-in effect names.
const (
	Translate  = "translate"
	Reverse    = "reverse"
	UpsideDown = "upside-down"
	CrazyCase  = "crazy-case"
	Corrupt    = "corrupt"
)

var builtins = map[string]Func{
	Translate:  TranslateWord,
	Reverse:    ReverseWord,
	UpsideDown: UpsideDownWord,
	CrazyCase:  CrazyCaseWord,
	Corrupt:    CorruptWord,
}

// Builtin returns the transform registered under name.
func Builtin(name string) (Func, bool) {
	fn, ok := builtins[name]
	return fn, ok
}

// BuiltinNames returns the names of all built-in transforms, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spec is the configuration form of an effect: a built-in transform name
// plus its selection parameters.
type Spec struct {
	Name        string
	Probability float64
	Step        float64
}

// DefaultSpecs is the default catalog, in registry order.
var DefaultSpecs = []Spec{
	{Name: Translate, Probability: 0.1, Step: 0.005},
	{Name: Reverse, Probability: 0.05, Step: 0},
	{Name: UpsideDown, Probability: 0.9, Step: 0.02},
	{Name: CrazyCase, Probability: 0.85, Step: 0.005},
	{Name: Corrupt, Probability: 0.75, Step: 0.05},
}

// FromSpecs builds a registry binding each spec to its built-in transform.
func FromSpecs(specs []Spec) (*Registry, error) {
	effects := make([]Effect, 0, len(specs))
	for _, s := range specs {
		fn, ok := Builtin(s.Name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidEffect,
				"unknown effect %q (available: %v)", s.Name, BuiltinNames())
		}
		effects = append(effects, Effect{
			Name:        s.Name,
			Apply:       fn,
			Probability: s.Probability,
			Step:        s.Step,
		})
	}
	return New(effects...)
}

// Default returns a registry holding the default catalog.
func Default() *Registry {
	r, err := FromSpecs(DefaultSpecs)
	if err != nil {
		panic(err)
	}
	return r
}
