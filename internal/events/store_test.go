package events_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agrimarket-dev/agrimarket/internal/apperr"
	"github.com/agrimarket-dev/agrimarket/internal/entityref"
	"github.com/agrimarket-dev/agrimarket/internal/events"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/views"
)

var base = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Order{}, &models.Event{}))

	return gdb
}

func newRegistry(gdb *gorm.DB) *entityref.Registry {
	registry := entityref.NewRegistry()

	registry.Register("order", func(id uint) (*entityref.Entity, error) {
		var order models.Order

		if err := gdb.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}

		return &entityref.Entity{
			ID:          order.ID,
			Type:        "order",
			DisplayName: fmt.Sprintf("Order #%d (%s)", order.ID, order.Status),
		}, nil
	})

	return registry
}

func newStore(t *testing.T) (*events.Store, *gorm.DB, *entityref.Registry) {
	gdb := newTestDB(t)
	registry := newRegistry(gdb)
	return events.NewStore(gdb, registry), gdb, registry
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	store, _, _ := newStore(t)

	var validationErr *apperr.ValidationError

	_, err := store.Create(1, events.CreateInput{
		Title: "Backwards",
		Start: base,
		End:   base.Add(-time.Hour),
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "end", validationErr.Field)

	// end == start is rejected too
	_, err = store.Create(1, events.CreateInput{
		Title: "Zero length",
		Start: base,
		End:   base,
	})
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	store, _, _ := newStore(t)

	event, err := store.Create(1, events.CreateInput{
		Title: "Harvest wheat field",
		Start: base,
		End:   base.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventOther, event.EventType)
	assert.False(t, event.AllDay)

	var validationErr *apperr.ValidationError

	_, err = store.Create(1, events.CreateInput{
		Title:     "Bad kind",
		Start:     base,
		End:       base.Add(time.Hour),
		EventType: "festival",
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "event_type", validationErr.Field)

	_, err = store.Create(1, events.CreateInput{
		Title: "",
		Start: base,
		End:   base.Add(time.Hour),
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "title", validationErr.Field)

	_, err = store.Create(1, events.CreateInput{
		Title:     "Unknown ref",
		Start:     base,
		End:       base.Add(time.Hour),
		Reference: &entityref.Reference{Type: "invoice", ID: 1},
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "related_content_type", validationErr.Field)
}

func TestUpdateRevalidatesMergedRange(t *testing.T) {
	store, _, _ := newStore(t)

	event, err := store.Create(1, events.CreateInput{
		Title: "Delivery run",
		Start: base,
		End:   base.Add(time.Hour),
	})
	require.NoError(t, err)

	// Moving end before the existing start must fail.
	badEnd := base.Add(-time.Minute)
	var validationErr *apperr.ValidationError

	_, err = store.Update(1, event.ID, events.Patch{End: &badEnd})
	require.ErrorAs(t, err, &validationErr)

	// Moving start after the existing end must fail.
	badStart := base.Add(2 * time.Hour)
	_, err = store.Update(1, event.ID, events.Patch{Start: &badStart})
	require.ErrorAs(t, err, &validationErr)

	// Moving both together is fine.
	newStart := base.Add(3 * time.Hour)
	newEnd := base.Add(4 * time.Hour)
	updated, err := store.Update(1, event.ID, events.Patch{Start: &newStart, End: &newEnd})
	require.NoError(t, err)
	assert.True(t, updated.Start.Equal(newStart))
	assert.True(t, updated.End.Equal(newEnd))
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	store, gdb, _ := newStore(t)

	event, err := store.Create(1, events.CreateInput{
		Title: "Stall setup",
		Start: base,
		End:   base.Add(time.Hour),
	})
	require.NoError(t, err)

	stale := base.Add(-24 * time.Hour)
	require.NoError(t, gdb.Model(&models.Event{}).Where("id = ?", event.ID).Update("updated_at", stale).Error)

	title := "Market stall setup"
	updated, err := store.Update(1, event.ID, events.Patch{Title: &title})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(stale))
	assert.Equal(t, "Market stall setup", updated.Title)
}

func TestUpdateNotOwned(t *testing.T) {
	store, _, _ := newStore(t)

	event, err := store.Create(1, events.CreateInput{
		Title: "Private",
		Start: base,
		End:   base.Add(time.Hour),
	})
	require.NoError(t, err)

	var notFoundErr *apperr.NotFoundError

	title := "hijacked"
	_, err = store.Update(2, event.ID, events.Patch{Title: &title})
	require.ErrorAs(t, err, &notFoundErr)
}

func TestListAscendingByStart(t *testing.T) {
	store, _, _ := newStore(t)

	for _, offset := range []time.Duration{4 * time.Hour, time.Hour, 2 * time.Hour} {
		_, err := store.Create(1, events.CreateInput{
			Title: fmt.Sprintf("event at +%s", offset),
			Start: base.Add(offset),
			End:   base.Add(offset + 30*time.Minute),
		})
		require.NoError(t, err)
	}

	items, err := store.List(1, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].Start.Before(items[i-1].Start), "expected non-decreasing start")
	}
}

func TestListWindowOverlap(t *testing.T) {
	store, _, _ := newStore(t)

	mk := func(title string, start, end time.Time) {
		_, err := store.Create(1, events.CreateInput{Title: title, Start: start, End: end})
		require.NoError(t, err)
	}

	from := base.Add(2 * time.Hour)
	to := base.Add(4 * time.Hour)

	// Boundary events ("touches-start" ends exactly at from, "starts-at-end"
	// begins exactly at to) fall outside the half-open window.
	mk("before", base, base.Add(time.Hour))
	mk("touches-start", base.Add(time.Hour), from)
	mk("spans-start", base.Add(time.Hour), base.Add(3*time.Hour))
	mk("inside", base.Add(150*time.Minute), base.Add(3*time.Hour))
	mk("spans-end", base.Add(210*time.Minute), base.Add(5*time.Hour))
	mk("starts-at-end", to, base.Add(5*time.Hour))
	mk("after", base.Add(5*time.Hour), base.Add(6*time.Hour))
	mk("envelops", base.Add(time.Hour), base.Add(6*time.Hour))

	items, err := store.List(1, &events.Window{From: from, To: to})
	require.NoError(t, err)

	titles := make([]string, 0, len(items))
	for _, event := range items {
		titles = append(titles, event.Title)
	}

	assert.ElementsMatch(t, []string{"spans-start", "inside", "spans-end", "envelops"}, titles)
}

func TestDelete(t *testing.T) {
	store, _, _ := newStore(t)

	event, err := store.Create(1, events.CreateInput{
		Title: "Disposable",
		Start: base,
		End:   base.Add(time.Hour),
	})
	require.NoError(t, err)

	var notFoundErr *apperr.NotFoundError

	err = store.Delete(2, event.ID)
	require.ErrorAs(t, err, &notFoundErr)

	require.NoError(t, store.Delete(1, event.ID))

	err = store.Delete(1, event.ID)
	require.ErrorAs(t, err, &notFoundErr)
}

func TestDanglingReferenceStaysReadable(t *testing.T) {
	store, gdb, registry := newStore(t)

	order := models.Order{CustomerID: 1, Status: models.OrderPending}
	require.NoError(t, gdb.Create(&order).Error)

	event, err := store.Create(1, events.CreateInput{
		Title:     "Deliver order",
		Start:     base,
		End:       base.Add(time.Hour),
		EventType: models.EventDelivery,
		Reference: &entityref.Reference{Type: "order", ID: order.ID},
	})
	require.NoError(t, err)

	require.NoError(t, gdb.Unscoped().Delete(&order).Error)

	fetched, err := store.Get(1, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deliver order", fetched.Title)

	summary, err := views.DisplaySummary(fetched.Reference(), registry)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestHarvestScenario(t *testing.T) {
	store, _, _ := newStore(t)

	event, err := store.Create(1, events.CreateInput{
		Title:     "Harvest wheat field",
		Start:     base,
		End:       base.Add(2 * time.Hour),
		EventType: models.EventHarvest,
	})
	require.NoError(t, err)

	assert.Equal(t, "2 hours", views.DurationBucket(event.Start, event.End))
	assert.Equal(t, "#28a745", views.ColorFor(event.EventType))
	assert.True(t, views.IsPast(event.End, base.Add(3*time.Hour)))
}
