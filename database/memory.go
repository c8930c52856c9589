package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// MemoryDashboardStore keeps dashboards in process memory. It follows the
// same clear-then-set default protocol and migration semantics as the
// Arango store, and backs tests and local development without a database.
type MemoryDashboardStore struct {
	mu         sync.Mutex
	dashboards map[string]*model.Dashboard
	clock      func() time.Time
}

// NewMemoryDashboardStore builds an empty in-memory store.
func NewMemoryDashboardStore() *MemoryDashboardStore {
	return &MemoryDashboardStore{
		dashboards: map[string]*model.Dashboard{},
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the store's time source for tests.
func (s *MemoryDashboardStore) SetClock(clock func() time.Time) {
	s.clock = clock
}

func copyDashboard(d *model.Dashboard) *model.Dashboard {
	c := *d
	c.Layout = append([]model.GridCell{}, d.Layout...)
	c.Widgets = append([]model.WidgetConfig{}, d.Widgets...)
	return &c
}

func (s *MemoryDashboardStore) clearDefaultsLocked(keepID string) {
	for _, d := range s.dashboards {
		if d.IsDefault && d.ID != keepID {
			d.IsDefault = false
			d.UpdatedAt = s.clock()
		}
	}
}

func (s *MemoryDashboardStore) Create(_ context.Context, spec model.DashboardSpec) (*model.Dashboard, error) {
	if err := validateDashboardSpec(spec); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if spec.IsDefault {
		s.clearDefaultsLocked("")
	}

	now := s.clock()
	d := &model.Dashboard{
		ObjType:     "Dashboard",
		ID:          uuid.NewString(),
		Name:        spec.Name,
		Description: spec.Description,
		IsDefault:   spec.IsDefault,
		Layout:      append([]model.GridCell{}, spec.Layout...),
		Widgets:     append([]model.WidgetConfig{}, spec.Widgets...),
		Settings:    spec.Settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.dashboards[d.ID] = d
	return copyDashboard(d), nil
}

func (s *MemoryDashboardStore) List(_ context.Context) ([]*model.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []*model.Dashboard{}
	for _, d := range s.dashboards {
		list = append(list, copyDashboard(d))
	}
	sortDashboards(list)
	return list, nil
}

func (s *MemoryDashboardStore) Get(_ context.Context, id string) (*model.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dashboards[id]
	if !ok {
		return nil, apperr.NotFound("dashboard", id)
	}
	return copyDashboard(d), nil
}

func (s *MemoryDashboardStore) Update(_ context.Context, id string, spec model.DashboardSpec) (*model.Dashboard, error) {
	if err := validateDashboardSpec(spec); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dashboards[id]
	if !ok {
		return nil, apperr.NotFound("dashboard", id)
	}

	if spec.IsDefault && !d.IsDefault {
		s.clearDefaultsLocked(id)
	}

	d.Name = spec.Name
	d.Description = spec.Description
	d.IsDefault = spec.IsDefault
	d.Layout = append([]model.GridCell{}, spec.Layout...)
	d.Widgets = append([]model.WidgetConfig{}, spec.Widgets...)
	d.Settings = spec.Settings
	d.UpdatedAt = s.clock()
	return copyDashboard(d), nil
}

func (s *MemoryDashboardStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dashboards[id]; !ok {
		return apperr.NotFound("dashboard", id)
	}
	delete(s.dashboards, id)
	return nil
}

func (s *MemoryDashboardStore) MigrateWidgetTypes(_ context.Context, pred model.WidgetPredicate, to model.WidgetType) (model.MigrationResult, error) {
	if !to.Valid() {
		return model.MigrationResult{}, apperr.Validation("to_type", "unknown widget type: "+string(to))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := model.MigrationResult{Success: true}
	now := s.clock()
	for _, d := range s.dashboards {
		changed := migrateDashboardWidgets(d, pred, to)
		if changed == 0 {
			continue
		}
		d.UpdatedAt = now
		result.DashboardsChanged++
		result.WidgetsChanged += changed
	}

	result.Message = fmt.Sprintf("migrated %d widgets across %d dashboards", result.WidgetsChanged, result.DashboardsChanged)
	return result, nil
}
