// Package transform runs the progressive glitch over documents.
//
// A [Document] is a source split into raw segments, which are copied
// verbatim, and regions, which are tokenized into words and whitespace. One
// [Run] covers every region of a document: it counts the words first, then
// walks them in order, asking the fire curve how likely an effect is at the
// current position and running the two-stage lottery to pick one. Effect
// weights advance after every word, so the glitch intensifies toward the end
// of the text.
//
// Selection is sequential and reproducible for a given random stream.
// Applying the chosen effects is not: effects run concurrently, each with a
// private generator seeded during selection, and results are written back
// into fixed slots so the output keeps document order.
//
// Every selected word is wrapped in a span. Words that drew no effect render
// as <span>word</span>; affected words carry the effect class and their
// original text:
//
//	<span class="effect-reverse" title="Original: word">drow</span>
//
// Words containing markup delimiters are never counted or transformed.
package transform
