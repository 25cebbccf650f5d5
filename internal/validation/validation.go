// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required values or email formats) and turns every failure
// into one of the fixed errs.HTTPError kinds the client
// understands
package validation
