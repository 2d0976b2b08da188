// Package sanitizer provides input normalization for visitor and meeting data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings or empty slices rather than errors.
//
// Normalization includes:
//   - Phone numbers: convert to E.164 format (+[country][number])
//   - Names/purposes/reasons: collapse whitespace, trim leading/trailing spaces
//   - Slices: remove duplicates and empty values after normalization
package sanitizer
