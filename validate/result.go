// Package validate implements SpecCade's two-pass validation engine:
// a shape pass common to every asset type, and a recipe-specific
// budget pass dispatched on recipe.kind. Diagnostics accumulate in a
// Result rather than failing fast, so a single run reports everything
// wrong with a spec at once (spec §4.2).
package validate

import "github.com/speccade/speccade/internal/specerr"

// Result accumulates errors and warnings from one or more validation
// passes.
type Result struct {
	Errors   []*specerr.SpecError
	Warnings []*specerr.Warning
}

// AddError appends a coded error at path.
func (r *Result) AddError(code specerr.Code, path, message string) {
	r.Errors = append(r.Errors, &specerr.SpecError{Code: code, Message: message, Path: path})
}

// AddWarning appends a coded warning at path.
func (r *Result) AddWarning(code specerr.Code, path, message string) {
	r.Warnings = append(r.Warnings, &specerr.Warning{Code: code, Message: message, Path: path})
}

// Merge appends other's diagnostics onto r.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// OK reports whether no errors were accumulated. Warnings never fail
// validation.
func (r *Result) OK() bool { return len(r.Errors) == 0 }
