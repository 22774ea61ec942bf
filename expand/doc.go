// Package expand substitutes ${NAME} placeholders in a string.
//
// A placeholder is "${", at least one character, and the first "}" that
// follows. Names are resolved through a [Source]: its custom table first, then
// the process environment if enabled. Names that cannot be resolved are
// replaced with the empty string, without error. [Missing] reports them for
// callers that want diagnostics.
//
// Placeholders are collected from the source text only. Each is replaced as a
// plain substring of the running result, so a value that spells a placeholder
// still pending in the source is replaced too. Values are never scanned for
// placeholders of their own.
package expand
