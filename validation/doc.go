// Package validation provides struct validation via go-playground/validator,
// returning structured AppErrors with per-field details.
package validation
