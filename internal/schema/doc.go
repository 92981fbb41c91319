// Package schema loads the static settings schema: panels holding
// sections holding options.
//
// The schema is a TOML document. Keys that are not properties of their
// level are children of the next level:
//
//	version = "1.0"
//	i18n = "global_settings_setting"
//
//	[security.webadmin.webadmin_allowlist_enabled]
//	type = "boolean"
//	default = false
//
// Declaration order is significant and kept everywhere. Loading fails with
// [*Error] on duplicate ids, reserved option ids, unknown types, defaults
// that fail their own type, and patterns or visibility expressions that do
// not compile.
//
// Visibility is an expr-lang expression over merged option values; see
// [Predicate].
package schema
