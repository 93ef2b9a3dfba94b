package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "spearow/pkg/errors"
)

func Test_ReportRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ReportRequest
		wantErr string
	}{
		{
			name: "valid user report",
			req:  ReportRequest{ReportType: ReportTypeUser, ReportFormat: FormatJSON},
		},
		{
			name: "valid detailed report",
			req:  ReportRequest{ReportType: ReportTypeDetailed, ReportCategory: CategoryAllBreaches, ReportFormat: FormatPDF},
		},
		{
			name:    "unknown report type",
			req:     ReportRequest{ReportType: "weekly", ReportFormat: FormatJSON},
			wantErr: "invalid report type",
		},
		{
			name:    "detailed without category",
			req:     ReportRequest{ReportType: ReportTypeDetailed, ReportFormat: FormatJSON},
			wantErr: "report category is required for detailed reports",
		},
		{
			name:    "unknown format",
			req:     ReportRequest{ReportType: ReportTypeUser, ReportFormat: "xml"},
			wantErr: "invalid report format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
