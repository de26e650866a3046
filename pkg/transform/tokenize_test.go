package transform

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Token
	}{
		{"empty", "", nil},
		{"single word", "word", []Token{{Text: "word"}}},
		{"spaces only", " \t\n", []Token{{Text: " \t\n", Space: true}}},
		{
			name: "leading and trailing space",
			in:   "  a bb\n\nccc ",
			want: []Token{
				{Text: "  ", Space: true},
				{Text: "a"},
				{Text: " ", Space: true},
				{Text: "bb"},
				{Text: "\n\n", Space: true},
				{Text: "ccc"},
				{Text: " ", Space: true},
			},
		},
		{
			name: "non-ascii whitespace",
			in:   "kotel\u00a0zvoni",
			want: []Token{{Text: "kotel"}, {Text: "\u00a0", Space: true}, {Text: "zvoni"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestTokenizeIsLossless(t *testing.T) {
	inputs := []string{
		"",
		"one",
		"  two  words  ",
		"tabs\tand\nnewlines\r\n",
		"Ёжик в тумане, ты где?",
		"e\u0301 combining",
	}
	for _, in := range inputs {
		var b strings.Builder
		for _, tok := range Tokenize(in) {
			b.WriteString(tok.Text)
		}
		if b.String() != in {
			t.Errorf("round trip of %q = %q", in, b.String())
		}
	}
}

func TestTokenizeAlternates(t *testing.T) {
	tokens := Tokenize(" a  b c\n")
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Space == tokens[i-1].Space {
			t.Fatalf("tokens %d and %d have the same kind: %+v", i-1, i, tokens)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"a", 1},
		{"a bb ccc", 3},
		{"\n hello,  world! \n", 2},
	}
	for _, tt := range tests {
		if got := CountWords(tt.in); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestProtected(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"plain", false},
		{"ёлка", false},
		{"<br>", true},
		{"a&b", true},
		{"x>y", true},
		{"\xff\xfe", true},
	}
	for _, tt := range tests {
		if got := Protected(tt.word); got != tt.want {
			t.Errorf("Protected(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}
