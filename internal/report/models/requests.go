package models

import (
	pkgerrors "spearow/pkg/errors"
)

// ReportRequest is the validated input contract for report generation.
// The caller identity is resolved by the auth middleware and travels on
// the request context, not in the body.
type ReportRequest struct {
	ReportType     ReportType   `json:"reportType"`
	ReportCategory string       `json:"reportCategory,omitempty"`
	ReportFormat   ReportFormat `json:"reportFormat"`
	Notes          string       `json:"notes,omitempty"`
}

// Validate enforces the structural contract: a known report type, a
// category for detailed reports, and a known output format. Category
// semantics (reserved tokens vs record names) are resolved downstream.
func (r ReportRequest) Validate() error {
	switch r.ReportType {
	case ReportTypeDetailed, ReportTypeUser:
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid report type")
	}

	if r.ReportType == ReportTypeDetailed && r.ReportCategory == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "report category is required for detailed reports")
	}

	switch r.ReportFormat {
	case FormatJSON, FormatCSV, FormatPDF:
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid report format")
	}

	return nil
}
