// Package sanitizer provides coercion helpers for untyped questionnaire
// payloads.
//
// All functions are pure and total: they handle any input gracefully,
// returning empty strings, empty slices, or nil maps rather than
// panicking. Applying them twice produces the same result as applying
// them once.
package sanitizer
