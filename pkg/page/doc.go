// Package page assembles the zine page and handles its file I/O.
//
// # Templates
//
// A template is an HTML file with placeholders of the form {{NAME}}, where
// NAME is made of letters, digits, underscores and hyphens:
//
//	<div class="container">
//	    {{content}}
//	</div>
//
// [Assemble] fills placeholders in one pass; substituted text is never
// scanned again, so transformed content that happens to contain braces is
// safe. [DefaultTemplate] is the built-in page with a single {{content}}
// placeholder.
//
// # Files
//
// [Read] loads a source document and normalizes it to NFC so that effects
// see composed characters. [Write] creates missing parent directories
// before writing the page.
package page
