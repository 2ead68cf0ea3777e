/*
Package resource implements the engine's addressable-byte-container
abstraction.

A Resource is an immutable, value-like handle identified by a URI (scheme
plus optional authority, path, query, and fragment). The engine persists
its own state through a Resource, and every platform stub is handed a
per-platform data Resource to pass on to its provider. The underlying
backing — a file, typically — is only materialized on Open, and is owned
by the caller from that point on.

Scheme-specific behavior (existence checks, deletion, path joining) is
delegated to a Backend registered by scheme name, mirroring the way
platform providers are resolved by name (see internal/provider). Only the
"file" scheme ships a backend; everything else round-trips opaquely
through New/Unref without a registered handler being required, since the
engine's own state document only ever stores file-scheme URIs.
*/
package resource
