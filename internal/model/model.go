// Package model holds the request types accepted by the email routes.
//
// Each type is built fresh per request by a constructor, filled by
// Bind and checked by Validate (see validation.Validatable). Nothing
// here outlives the request.
package model
