package shared

import (
	"net/http"
	"slices"
	"strings"

	"hrmconsole/internal/platform/validation"
	"hrmconsole/internal/transport/http/api"
)

// Validator collects query and path parameter problems before a flow is called.
// Body validation belongs to the domain inputs.
type Validator struct {
	issues []validation.Issue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	if reason = strings.TrimSpace(reason); reason != "" {
		v.issues = append(v.issues, validation.Issue{Field: field, Message: reason})
	}
}

func (v *Validator) Check(field string, err error) {
	if err != nil {
		v.Add(field, err.Error())
	}
}

func (v *Validator) HasIssues() bool {
	return len(v.issues) > 0
}

// Reject answers 400 with the collected issues, ordered by field, and reports
// whether it did.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	issues := slices.Clone(v.issues)
	slices.SortStableFunc(issues, func(a, b validation.Issue) int {
		return strings.Compare(a.Field, b.Field)
	})
	FailValidation(w, requestID, issues)
	return true
}

func FailValidation(w http.ResponseWriter, requestID string, issues any) {
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
		map[string]any{"fields": issues}, requestID)
}
