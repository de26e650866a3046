package effect

import (
	"context"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// segments splits word into characters the way a reader sees them: a base
// rune followed by any combining marks.
func segments(word string) []string {
	word = norm.NFC.String(word)
	out := make([]string, 0, len(word))
	start := 0
	for i, r := range word {
		if i > start && !unicode.In(r, unicode.Mn, unicode.Me) {
			out = append(out, word[start:i])
			start = i
		}
	}
	if start < len(word) {
		out = append(out, word[start:])
	}
	return out
}

// ReverseWord reverses the characters of word.
func ReverseWord(_ context.Context, word string, _ *rand.Rand) (string, error) {
	segs := segments(word)
	var b strings.Builder
	b.Grow(len(word))
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteString(segs[i])
	}
	return b.String(), nil
}

// CrazyCaseWord upper- or lower-cases each character with equal odds.
func CrazyCaseWord(_ context.Context, word string, rng *rand.Rand) (string, error) {
	// Casers are stateful, one pair per call.
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	var b strings.Builder
	b.Grow(len(word))
	for _, seg := range segments(word) {
		if rng.Float64() > 0.5 {
			b.WriteString(upper.String(seg))
		} else {
			b.WriteString(lower.String(seg))
		}
	}
	return b.String(), nil
}

// upsideDownClass is styled with a CSS rotation by the page stylesheet.
const upsideDownClass = "effect-upside-down"

// UpsideDownWord wraps roughly half of the characters in a flipping span.
func UpsideDownWord(_ context.Context, word string, rng *rand.Rand) (string, error) {
	var b strings.Builder
	for _, seg := range segments(word) {
		if rng.Float64() < 0.5 {
			b.WriteString(`<span class="` + upsideDownClass + `">`)
			b.WriteString(seg)
			b.WriteString(`</span>`)
			continue
		}
		b.WriteString(seg)
	}
	return b.String(), nil
}

// TranslateWord fakes a translation by appending French-looking suffixes.
// Words of two characters or fewer are left alone.
func TranslateWord(ctx context.Context, word string, _ *rand.Rand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if utf8.RuneCountInString(word) <= 2 {
		return word, nil
	}

	switch {
	case strings.HasSuffix(word, "е"):
		return word + "au", nil
	case strings.HasSuffix(word, "т"):
		return word + "é", nil
	case strings.HasSuffix(word, "н"):
		return word + "ne", nil
	case strings.HasSuffix(word, "у"):
		return strings.TrimSuffix(word, "у") + "й", nil
	case strings.HasSuffix(word, "ер"):
		return strings.TrimSuffix(word, "ер") + "eur", nil
	case endsWithVowel(word):
		return word + "ment", nil
	default:
		return word + "ique", nil
	}
}

func endsWithVowel(word string) bool {
	r, _ := utf8.DecodeLastRuneInString(word)
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

const (
	corruptChance   = 0.2
	corruptMaxMarks = 25
	// Combining diacritical marks U+0300..U+033F.
	combiningFirst = 0x0300
	combiningCount = 0x40
)

// CorruptWord piles combining diacritics onto some characters.
func CorruptWord(_ context.Context, word string, rng *rand.Rand) (string, error) {
	var b strings.Builder
	b.Grow(len(word))
	for _, seg := range segments(word) {
		b.WriteString(seg)
		if rng.Float64() >= corruptChance {
			continue
		}
		n := rng.IntN(corruptMaxMarks) + 1
		for range n {
			b.WriteRune(rune(combiningFirst + rng.IntN(combiningCount)))
		}
	}
	return b.String(), nil
}
