// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles —
// handlers, storage, and the client can all import types without
// depending on each other.
package types

// Record is a single student enrollment record, the sole entity this
// system manages.
//
// The json tags match the column names of the users table and the wire
// field names the browser client sends. The validate tags are checked by
// go-playground/validator at the service boundary: every non-id field is
// required, and year must fall in the academic range 1–4.
//
// Mail carries no email-format rule here on purpose — format is checked
// on the client side only, never re-validated by the service.
type Record struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"   validate:"required"`
	RegNo string `json:"reg_no" validate:"required"`
	Dept  string `json:"dept"   validate:"required"`
	Year  int    `json:"year"   validate:"required,min=1,max=4"`
	Mail  string `json:"mail"   validate:"required"`
}
