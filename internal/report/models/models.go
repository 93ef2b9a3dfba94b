// Package models defines the canonical report shapes shared by the
// resolver, stores, and renderers.
package models

// Report type literals accepted by the API.
type ReportType string

const (
	ReportTypeDetailed ReportType = "detailed"
	ReportTypeUser     ReportType = "user"
)

// Output format literals. Each selects exactly one renderer.
type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatCSV  ReportFormat = "csv"
	FormatPDF  ReportFormat = "pdf"
)

// Reserved detailed-report categories. Any other category is treated as a
// breach record name.
const (
	CategoryAllBreaches    = "allbreaches"
	CategoryLatestBreaches = "latestBreaches"
)

// Literal results returned as normal values, not errors.
const (
	NoBreachesMessage  = "Email address not found in any breaches."
	SiteNotFoundResult = "Site not found"
	InvalidSiteResult  = "Invalid site name"
)

// StorageIDField is the internal document identifier attached by the cache
// store. It must never leave the resolver.
const StorageIDField = "_id"

// UserReport is the per-identity report shape. Report holds either a list
// of breach records or the no-breaches sentinel string.
type UserReport struct {
	Name              string `json:"Name"`
	Email             string `json:"Email"`
	ReportGeneratedAt string `json:"ReportGeneratedAt"`
	Report            any    `json:"Report"`
}

// AsRecord projects the report into the generic record shape used by the
// CSV and PDF renderers and by cache persistence.
func (u UserReport) AsRecord() *Record {
	rec := NewRecord()
	rec.Set("Name", u.Name)
	rec.Set("Email", u.Email)
	rec.Set("ReportGeneratedAt", u.ReportGeneratedAt)
	rec.Set("Report", u.Report)
	return rec
}

// StripStorageID removes the internal storage identifier from a record.
func StripStorageID(rec *Record) *Record {
	rec.Delete(StorageIDField)
	return rec
}

// StripStorageIDs removes the internal storage identifier from all records.
func StripStorageIDs(recs []*Record) []*Record {
	for _, rec := range recs {
		StripStorageID(rec)
	}
	return recs
}
