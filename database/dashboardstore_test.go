package database_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vulnwatch/vulnwatch-backend/database"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

func widget(id string, typ model.WidgetType, metricID string) model.WidgetConfig {
	return model.WidgetConfig{
		ID:         id,
		Type:       typ,
		Title:      id,
		DataSource: model.SourceCISA,
		MetricID:   metricID,
	}
}

func countDefaults(list []*model.Dashboard) int {
	n := 0
	for _, d := range list {
		if d.IsDefault {
			n++
		}
	}
	return n
}

func TestDashboardStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryDashboardStore()

	created, err := store.Create(ctx, model.DashboardSpec{
		Name:    "Operations",
		Widgets: []model.WidgetConfig{widget("w1", model.WidgetMetricCard, "total_kev")},
	})
	gt.NoError(t, err)
	gt.True(t, created.ID != "")

	got, err := store.Get(ctx, created.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Name, "Operations")
	gt.Equal(t, len(got.Widgets), 1)

	updated, err := store.Update(ctx, created.ID, model.DashboardSpec{
		Name:    "Operations v2",
		Widgets: []model.WidgetConfig{widget("w1", model.WidgetChart, "total_kev")},
	})
	gt.NoError(t, err)
	gt.Equal(t, updated.Name, "Operations v2")
	gt.Equal(t, updated.Widgets[0].Type, model.WidgetChart)

	gt.NoError(t, store.Delete(ctx, created.ID))

	_, err = store.Get(ctx, created.ID)
	gt.Error(t, err)
	gt.True(t, apperr.IsNotFound(err))
}

func TestDashboardStoreValidation(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryDashboardStore()

	t.Run("missing name", func(t *testing.T) {
		_, err := store.Create(ctx, model.DashboardSpec{})
		gt.Error(t, err)
		gt.True(t, apperr.IsValidation(err))
	})

	t.Run("unknown widget type", func(t *testing.T) {
		_, err := store.Create(ctx, model.DashboardSpec{
			Name:    "Bad",
			Widgets: []model.WidgetConfig{widget("w1", "hologram", "")},
		})
		gt.Error(t, err)
		gt.True(t, apperr.IsValidation(err))
	})

	t.Run("unknown data source", func(t *testing.T) {
		w := widget("w1", model.WidgetList, "")
		w.DataSource = "osint"
		_, err := store.Create(ctx, model.DashboardSpec{Name: "Bad", Widgets: []model.WidgetConfig{w}})
		gt.Error(t, err)
		gt.True(t, apperr.IsValidation(err))
	})
}

func TestDashboardStoreDefaultProtocol(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryDashboardStore()

	first, err := store.Create(ctx, model.DashboardSpec{Name: "First", IsDefault: true})
	gt.NoError(t, err)
	second, err := store.Create(ctx, model.DashboardSpec{Name: "Second", IsDefault: true})
	gt.NoError(t, err)

	list, err := store.List(ctx)
	gt.NoError(t, err)
	gt.Equal(t, countDefaults(list), 1)
	gt.Equal(t, list[0].ID, second.ID)
	gt.True(t, list[0].IsDefault)

	// Promoting via update clears the previous default too.
	_, err = store.Update(ctx, first.ID, model.DashboardSpec{Name: "First", IsDefault: true})
	gt.NoError(t, err)

	list, err = store.List(ctx)
	gt.NoError(t, err)
	gt.Equal(t, countDefaults(list), 1)
	gt.Equal(t, list[0].ID, first.ID)
}

func TestDashboardStoreMigrateWidgetTypes(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryDashboardStore()

	_, err := store.Create(ctx, model.DashboardSpec{
		Name: "A",
		Widgets: []model.WidgetConfig{
			widget("a1", model.WidgetMetricCard, "top_vendors"),
			widget("a2", model.WidgetMetricCard, "total_kev"),
		},
	})
	gt.NoError(t, err)
	_, err = store.Create(ctx, model.DashboardSpec{
		Name: "B",
		Widgets: []model.WidgetConfig{
			widget("b1", model.WidgetChart, "top_vendors"),
			widget("b2", model.WidgetMetricCard, "top_vendors"),
		},
	})
	gt.NoError(t, err)

	pred := model.WidgetPredicate{MetricID: "top_vendors", FromType: model.WidgetMetricCard}

	res, err := store.MigrateWidgetTypes(ctx, pred, model.WidgetVendorCard)
	gt.NoError(t, err)
	gt.Equal(t, res.DashboardsChanged, 2)
	gt.Equal(t, res.WidgetsChanged, 2)

	list, err := store.List(ctx)
	gt.NoError(t, err)
	for _, d := range list {
		for _, w := range d.Widgets {
			if w.MetricID == "top_vendors" && w.ID != "b1" {
				gt.Equal(t, w.Type, model.WidgetVendorCard)
			}
		}
	}

	t.Run("second run changes nothing", func(t *testing.T) {
		res, err := store.MigrateWidgetTypes(ctx, pred, model.WidgetVendorCard)
		gt.NoError(t, err)
		gt.Equal(t, res.DashboardsChanged, 0)
		gt.Equal(t, res.WidgetsChanged, 0)
	})

	t.Run("rejects unknown target type", func(t *testing.T) {
		_, err := store.MigrateWidgetTypes(ctx, pred, "hologram")
		gt.Error(t, err)
		gt.True(t, apperr.IsValidation(err))
	})
}
