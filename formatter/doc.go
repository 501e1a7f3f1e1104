// Package formatter renders JSON text in a single canonical form so that two
// JSON documents can be compared for structural equality with a plain string
// comparison.
//
// # Canonical Form
//
// Objects open with "{" and a newline. Each member is written on its own line
// as `"key": value`, indented by three spaces per level of object nesting, and
// members are separated by ",\n". The closing "}" sits at the indentation of
// the object that owns it.
//
// Arrays are written inline-first: "[ ", then the elements separated by ",\n"
// with no indentation added, then " ]". Arrays do not add a nesting level.
//
// Member order is preserved exactly as parsed; keys are never sorted. Strings
// are re-encoded in standard JSON form (so "A" and "A" are the same),
// numbers keep their literal text, and true, false, and null are unchanged.
//
//	{ "age": 18, "tags": [ "a", "b" ] }
//
// becomes
//
//	{
//	   "age": 18,
//	   "tags": [ "a",
//	"b" ]
//	}
//
// # Failures
//
// Text that is not exactly one JSON value (including empty text and text with
// trailing data) yields a [*FormatError] whose Raw field holds the original
// text, unmodified, for use in diagnostics.
package formatter
