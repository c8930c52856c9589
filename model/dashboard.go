package model

import "time"

// WidgetType enumerates the renderable widget kinds.
type WidgetType string

// Supported widget types.
const (
	WidgetMetricCard WidgetType = "metric_card"
	WidgetChart      WidgetType = "chart"
	WidgetTable      WidgetType = "table"
	WidgetList       WidgetType = "list"
	WidgetVendorCard WidgetType = "vendor_card"
)

// Valid reports whether t is a known widget type.
func (t WidgetType) Valid() bool {
	switch t {
	case WidgetMetricCard, WidgetChart, WidgetTable, WidgetList, WidgetVendorCard:
		return true
	}
	return false
}

// GridCell places one widget on the dashboard grid. I matches the owning
// WidgetConfig ID.
type GridCell struct {
	I string `json:"i"`
	X int    `json:"x"`
	Y int    `json:"y"`
	W int    `json:"w"`
	H int    `json:"h"`
}

// WidgetConfig describes one widget on a dashboard. A widget whose ID has
// no matching GridCell is tolerated and rendered after the placed ones.
type WidgetConfig struct {
	ID              string                 `json:"id"`
	Type            WidgetType             `json:"type"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description,omitempty"`
	DataSource      Source                 `json:"data_source"`
	MetricID        string                 `json:"metric_id,omitempty"`
	RefreshInterval int                    `json:"refresh_interval,omitempty"`
	Settings        map[string]interface{} `json:"settings,omitempty"`
}

// Dashboard is the persisted widget/layout configuration. Layout and
// Widgets are stored as structured columns alongside the scalar metadata.
// At most one dashboard carries IsDefault; the store's mutation protocol
// enforces it, so readers treat the first default in list order as
// authoritative.
type Dashboard struct {
	Key         string                 `json:"_key,omitempty"`
	ObjType     string                 `json:"objtype,omitempty"`
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	IsDefault   bool                   `json:"is_default"`
	Layout      []GridCell             `json:"layout"`
	Widgets     []WidgetConfig         `json:"widgets"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
	CreatedAt   time.Time              `json:"created_at,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at,omitempty"`
}

// DashboardSpec is the caller-supplied shape for create and update.
type DashboardSpec struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	IsDefault   bool                   `json:"is_default"`
	Layout      []GridCell             `json:"layout"`
	Widgets     []WidgetConfig         `json:"widgets"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
}

// WidgetPredicate selects widgets for a bulk type migration. Empty fields
// match anything, so the zero predicate matches every widget.
type WidgetPredicate struct {
	MetricID string     `json:"metric_id,omitempty"`
	WidgetID string     `json:"widget_id,omitempty"`
	FromType WidgetType `json:"from_type,omitempty"`
}

// Matches reports whether w satisfies the predicate.
func (p WidgetPredicate) Matches(w WidgetConfig) bool {
	if p.MetricID != "" && w.MetricID != p.MetricID {
		return false
	}
	if p.WidgetID != "" && w.ID != p.WidgetID {
		return false
	}
	if p.FromType != "" && w.Type != p.FromType {
		return false
	}
	return true
}
