// Package model - defines the record and payload types stored in and served from the database.
package model

import "time"

// Source identifies the upstream feed a record or metric belongs to.
type Source string

// Known upstream feeds.
const (
	SourceCISA  Source = "cisa"
	SourceNVD   Source = "nvd"
	SourceMITRE Source = "mitre"
)

// Valid reports whether s is one of the known upstream feeds.
func (s Source) Valid() bool {
	switch s {
	case SourceCISA, SourceNVD, SourceMITRE:
		return true
	}
	return false
}

// Vulnerability represents a known-exploited-vulnerability entry from the
// CISA KEV catalog, stored in the vulnerability collection.
type Vulnerability struct {
	Key               string    `json:"_key,omitempty"`
	ObjType           string    `json:"objtype,omitempty"`
	CveID             string    `json:"cve_id"`
	VendorProject     string    `json:"vendor_project"`
	Product           string    `json:"product"`
	VulnerabilityName string    `json:"vulnerability_name"`
	ShortDescription  string    `json:"short_description,omitempty"`
	RequiredAction    string    `json:"required_action,omitempty"`
	KnownRansomware   string    `json:"known_ransomware,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	DateAdded         time.Time `json:"date_added"`
	DueDate           time.Time `json:"due_date,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// VulnerabilitySummary is the trimmed row shape returned by list queries
// and carried inside list metric payloads.
type VulnerabilitySummary struct {
	CveID             string    `json:"cve_id"`
	VendorProject     string    `json:"vendor_project"`
	Product           string    `json:"product"`
	VulnerabilityName string    `json:"vulnerability_name"`
	DateAdded         time.Time `json:"date_added"`
	DueDate           time.Time `json:"due_date,omitempty"`
}
