package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/google/uuid"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// DashboardStore mediates all dashboard reads and writes. It holds no
// long-lived in-memory copy: every call re-reads the backing store.
type DashboardStore interface {
	Create(ctx context.Context, spec model.DashboardSpec) (*model.Dashboard, error)
	List(ctx context.Context) ([]*model.Dashboard, error)
	Get(ctx context.Context, id string) (*model.Dashboard, error)
	Update(ctx context.Context, id string, spec model.DashboardSpec) (*model.Dashboard, error)
	Delete(ctx context.Context, id string) error

	// MigrateWidgetTypes is an idempotent, predicate-driven bulk rewrite:
	// it rewrites the type of every matching widget and writes back only
	// dashboards with at least one change. A second run with the same
	// arguments mutates nothing.
	MigrateWidgetTypes(ctx context.Context, pred model.WidgetPredicate, to model.WidgetType) (model.MigrationResult, error)
}

// validateDashboardSpec rejects malformed specs with field-level detail.
func validateDashboardSpec(spec model.DashboardSpec) error {
	if spec.Name == "" {
		return apperr.Validation("name", "dashboard name is required")
	}
	for i, w := range spec.Widgets {
		if w.ID == "" {
			return apperr.Validation(fmt.Sprintf("widgets[%d].id", i), "widget id is required")
		}
		if !w.Type.Valid() {
			return apperr.Validation(fmt.Sprintf("widgets[%d].type", i), "unknown widget type: "+string(w.Type))
		}
		if !w.DataSource.Valid() {
			return apperr.Validation(fmt.Sprintf("widgets[%d].data_source", i), "unknown data source: "+string(w.DataSource))
		}
	}
	return nil
}

// migrateDashboardWidgets rewrites matching widget types in place and
// returns how many widgets changed. Matching a widget already holding the
// target type is not a change, which is what makes the migration
// idempotent.
func migrateDashboardWidgets(d *model.Dashboard, pred model.WidgetPredicate, to model.WidgetType) int {
	changed := 0
	for i := range d.Widgets {
		if !pred.Matches(d.Widgets[i]) {
			continue
		}
		if d.Widgets[i].Type == to {
			continue
		}
		d.Widgets[i].Type = to
		changed++
	}
	return changed
}

// sortDashboards orders default first, then most recently updated.
// Callers treat the first default in this order as authoritative if a
// write race ever leaves two dashboards flagged.
func sortDashboards(list []*model.Dashboard) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].IsDefault != list[j].IsDefault {
			return list[i].IsDefault
		}
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
}

// ArangoDashboardStore is the DashboardStore over the dashboard collection.
type ArangoDashboardStore struct {
	db    DBConnection
	clock func() time.Time
}

// NewDashboardStore builds the Arango-backed store.
func NewDashboardStore(db DBConnection) *ArangoDashboardStore {
	return &ArangoDashboardStore{db: db, clock: func() time.Time { return time.Now().UTC() }}
}

// clearDefaults drops the default flag on every dashboard except the one
// named by keepID (empty keeps none). First half of the clear-then-set
// protocol; not wrapped in a transaction with the set, see List ordering.
func (s *ArangoDashboardStore) clearDefaults(ctx context.Context, keepID string) error {
	query := `
		FOR d IN dashboard
			FILTER d.is_default == true AND d.id != @keep
			UPDATE d WITH { is_default: false, updated_at: @now } IN dashboard
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"keep": keepID, "now": s.clock()},
	})
	if err != nil {
		return apperr.Store(err, "failed to clear default dashboards")
	}
	cursor.Close()
	return nil
}

// Create validates the spec and inserts a new dashboard. When the spec
// asks for default, all other defaults are cleared first.
func (s *ArangoDashboardStore) Create(ctx context.Context, spec model.DashboardSpec) (*model.Dashboard, error) {
	if err := validateDashboardSpec(spec); err != nil {
		return nil, err
	}

	if spec.IsDefault {
		if err := s.clearDefaults(ctx, ""); err != nil {
			return nil, err
		}
	}

	now := s.clock()
	d := model.Dashboard{
		ObjType:     "Dashboard",
		ID:          uuid.NewString(),
		Name:        spec.Name,
		Description: spec.Description,
		IsDefault:   spec.IsDefault,
		Layout:      spec.Layout,
		Widgets:     spec.Widgets,
		Settings:    spec.Settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if d.Layout == nil {
		d.Layout = []model.GridCell{}
	}
	if d.Widgets == nil {
		d.Widgets = []model.WidgetConfig{}
	}

	meta, err := s.db.Collections["dashboard"].CreateDocument(ctx, d)
	if err != nil {
		return nil, apperr.Store(err, "failed to save dashboard")
	}
	d.Key = meta.Key
	return &d, nil
}

// List returns all dashboards ordered default first, then by most recent
// update.
func (s *ArangoDashboardStore) List(ctx context.Context) ([]*model.Dashboard, error) {
	query := `
		FOR d IN dashboard
			SORT d.is_default DESC, d.updated_at DESC
			RETURN d
	`
	cursor, err := s.db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, apperr.Store(err, "dashboard list query failed")
	}
	defer cursor.Close()

	list := []*model.Dashboard{}
	for cursor.HasMore() {
		var d model.Dashboard
		if _, err := cursor.ReadDocument(ctx, &d); err != nil {
			return nil, apperr.Store(err, "failed to read dashboard")
		}
		list = append(list, &d)
	}
	return list, nil
}

// Get returns a dashboard by its public ID.
func (s *ArangoDashboardStore) Get(ctx context.Context, id string) (*model.Dashboard, error) {
	query := `
		FOR d IN dashboard
			FILTER d.id == @id
			LIMIT 1
			RETURN d
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"id": id},
	})
	if err != nil {
		return nil, apperr.Store(err, "dashboard lookup failed")
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, apperr.NotFound("dashboard", id)
	}
	var d model.Dashboard
	if _, err := cursor.ReadDocument(ctx, &d); err != nil {
		return nil, apperr.Store(err, "failed to read dashboard")
	}
	return &d, nil
}

// Update replaces the mutable fields of an existing dashboard.
func (s *ArangoDashboardStore) Update(ctx context.Context, id string, spec model.DashboardSpec) (*model.Dashboard, error) {
	if err := validateDashboardSpec(spec); err != nil {
		return nil, err
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if spec.IsDefault && !d.IsDefault {
		if err := s.clearDefaults(ctx, id); err != nil {
			return nil, err
		}
	}

	now := s.clock()
	update := map[string]interface{}{
		"name":        spec.Name,
		"description": spec.Description,
		"is_default":  spec.IsDefault,
		"layout":      spec.Layout,
		"widgets":     spec.Widgets,
		"settings":    spec.Settings,
		"updated_at":  now,
	}
	if _, err := s.db.Collections["dashboard"].UpdateDocument(ctx, d.Key, update); err != nil {
		return nil, apperr.Store(err, "failed to update dashboard")
	}

	d.Name = spec.Name
	d.Description = spec.Description
	d.IsDefault = spec.IsDefault
	d.Layout = spec.Layout
	d.Widgets = spec.Widgets
	d.Settings = spec.Settings
	d.UpdatedAt = now
	return d, nil
}

// Delete removes a dashboard by its public ID.
func (s *ArangoDashboardStore) Delete(ctx context.Context, id string) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.Collections["dashboard"].DeleteDocument(ctx, d.Key); err != nil {
		return apperr.Store(err, "failed to delete dashboard")
	}
	return nil
}

// MigrateWidgetTypes maps over every dashboard's widget sequence and
// writes back only the ones with at least one changed widget.
func (s *ArangoDashboardStore) MigrateWidgetTypes(ctx context.Context, pred model.WidgetPredicate, to model.WidgetType) (model.MigrationResult, error) {
	if !to.Valid() {
		return model.MigrationResult{}, apperr.Validation("to_type", "unknown widget type: "+string(to))
	}

	list, err := s.List(ctx)
	if err != nil {
		return model.MigrationResult{}, err
	}

	result := model.MigrationResult{Success: true}
	now := s.clock()
	for _, d := range list {
		changed := migrateDashboardWidgets(d, pred, to)
		if changed == 0 {
			continue
		}
		update := map[string]interface{}{
			"widgets":    d.Widgets,
			"updated_at": now,
		}
		if _, err := s.db.Collections["dashboard"].UpdateDocument(ctx, d.Key, update); err != nil {
			return model.MigrationResult{}, apperr.Store(err, "failed to write migrated dashboard")
		}
		result.DashboardsChanged++
		result.WidgetsChanged += changed
	}

	result.Message = fmt.Sprintf("migrated %d widgets across %d dashboards", result.WidgetsChanged, result.DashboardsChanged)
	return result, nil
}
