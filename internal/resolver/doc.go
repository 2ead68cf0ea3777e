/*
Package resolver substitutes #{expr} placeholders embedded in strings
against a property bag, and exposes a lazy view over nested maps and
lists so that property trees can reference each other without eager,
duplicated expansion.

The substitution machine is a small character-at-a-time state machine
(ported from the original engine's text resolver): plain text copies
through untouched, a lone '#' watches for an opening '{', two
consecutive '#' characters collapse to one literal '#' and suppress
interpretation of whatever follows, and text between '#{' and the
matching '}' is parsed and evaluated as an expression. Single-quoted
strings inside an expression may contain '}' without ending it.

The expression language is deliberately small: numeric and string
literals, identifiers bound to property-bag entries, '[...]' indexing,
'.' attribute access on maps, and '+' for numeric addition, string
concatenation, and list concatenation. It has no side effects and
always terminates for non-recursive property graphs; a self-referential
graph is undefined behavior, same as in the original engine.

LazyMap and LazyList wrap a decoded map[string]any/[]any in O(1) without
walking their contents; each element access resolves string leaves
against the same property bag and wraps nested containers the same
way.
*/
package resolver
