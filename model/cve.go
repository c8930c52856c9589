package model

import "time"

// CVERecord represents an NVD CVE record stored in the cve collection.
// Only the fields the metric and list queries touch are modeled; the raw
// feed document is kept verbatim in Raw for future reprocessing.
type CVERecord struct {
	Key          string                 `json:"_key,omitempty"`
	ObjType      string                 `json:"objtype,omitempty"`
	CveID        string                 `json:"cve_id"`
	Description  string                 `json:"description,omitempty"`
	Severity     string                 `json:"severity,omitempty"` // CRITICAL | HIGH | MEDIUM | LOW
	CVSSScore    float64                `json:"cvss_score,omitempty"`
	CVSSVector   string                 `json:"cvss_vector,omitempty"`
	Published    time.Time              `json:"published"`
	LastModified time.Time              `json:"last_modified,omitempty"`
	References   []string               `json:"references,omitempty"`
	Raw          map[string]interface{} `json:"raw,omitempty"`
	CreatedAt    time.Time              `json:"created_at,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at,omitempty"`
}

// Technique represents a MITRE ATT&CK technique record stored in the
// technique collection.
type Technique struct {
	Key         string    `json:"_key,omitempty"`
	ObjType     string    `json:"objtype,omitempty"`
	TechniqueID string    `json:"technique_id"`
	Name        string    `json:"name"`
	Tactic      string    `json:"tactic,omitempty"`
	Description string    `json:"description,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
	Modified    time.Time `json:"modified,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}
