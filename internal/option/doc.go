// Package option implements the type system of the settings engine.
//
// Values read from disk enter as [Raw] (literal text plus a coarse kind) and
// leave [Coerce] as one of the closed [Value] variants: [Null], [Bool],
// [Int], [String] or [List]. Nothing past the coercion boundary handles
// untyped values.
//
// # Coercion Rules
//
//   - boolean: true/false, 0/1, and yes/no, y/n, t/f, on/off (any case)
//   - number: integers, integral floats and integer strings
//   - string, text, select, path, password, email, url: the literal text of
//     any scalar, so "0123" stays "0123"
//   - tags: a list of scalars or a comma separated string
//   - alert, markdown, display_text, button: never hold a value
//
// Constraint failures (choices, pattern, min/max, path/email/url format)
// are reported as [*ConstraintViolation]; values of the wrong shape as
// [*TypeMismatch].
package option
