// Package document turns the markdown prayer book into an ordered list of
// segments: atomic units of text that can be rendered and spoken on their own.
//
// Parsing is a single pass over blank-line separated paragraphs. Each paragraph
// is classified by an ordered rule table (literal, note, heading, rule, plain);
// the first matching rule decides how it is emitted. Body text runs through
// the textutil transformations (clean, split sentences, split quotes) and is
// wrapped positionally so the web client can rebuild the paragraph from the
// per-segment HTML templates.
//
// The label context and the uid counter live in a per-parse state value, so
// parsing the same input twice yields identical segments.
package document
