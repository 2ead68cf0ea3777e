/*
Package codec streams structured values — number, string, list, map — to
and from byte streams using a JSON-compatible textual form (UTF-8, double-
or single-quoted strings with backslash escapes, decimal numbers, [...]
lists, {key: value} maps, insignificant whitespace).

Reader is pull-based: reading a list or map returns a Value whose children
are produced on demand through Elements/Entries, so a large document can
be walked without materializing every node at once. Writer is the dual: it
streams a native Go value (number, string, []any, map[string]any) out as
text, optionally in canonical form (sorted map keys, indentation) for the
engine's own state document; the trailing newline of that document is
written by the engine's Store, not by Writer.

The only textual errors this package raises are ErrUnterminatedString,
ErrMissingSeparator, ErrEmptyItem, and ErrIllegalInitialChar — the engine
propagates exactly these four and nothing else from malformed input.
*/
package codec
