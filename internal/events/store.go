// Package events persists per-user calendar events with temporal validation.
package events

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/agrimarket-dev/agrimarket/internal/apperr"
	"github.com/agrimarket-dev/agrimarket/internal/entityref"
	"github.com/agrimarket-dev/agrimarket/internal/models"
)

type Store struct {
	db       *gorm.DB
	registry *entityref.Registry
}

func NewStore(db *gorm.DB, registry *entityref.Registry) *Store {
	return &Store{db: db, registry: registry}
}

type CreateInput struct {
	Title       string
	Description *string
	Start       time.Time
	End         time.Time
	AllDay      bool
	EventType   string
	Location    *string
	Reference   *entityref.Reference
}

// Patch carries the fields of a partial update; nil fields are untouched.
// ClearReference drops an existing reference when Reference is nil.
type Patch struct {
	Title          *string
	Description    *string
	Start          *time.Time
	End            *time.Time
	AllDay         *bool
	EventType      *string
	Location       *string
	Reference      *entityref.Reference
	ClearReference bool
}

// Window is a half-open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

func (s *Store) validateReference(ref *entityref.Reference) error {
	if ref.ID == 0 {
		return apperr.Validation("related_object_id", "must be a positive id")
	}

	// Tag only; the id is resolved at read time so the event may reference
	// a record created in the same unit of work.
	if !s.registry.Registered(ref.Type) {
		return apperr.Validation("related_content_type", "unknown content type")
	}

	return nil
}

// Create validates and persists an event for userID. EventType defaults to
// "other" when empty.
func (s *Store) Create(userID uint, in CreateInput) (*models.Event, error) {
	if in.Title == "" {
		return nil, apperr.Validation("title", "must not be empty")
	}

	if in.EventType == "" {
		in.EventType = models.EventOther
	}

	if !models.ValidEventType(in.EventType) {
		return nil, apperr.Validation("event_type", "unknown event type")
	}

	if !in.End.After(in.Start) {
		return nil, apperr.Validation("end", "must be after start")
	}

	event := models.Event{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Start:       in.Start,
		End:         in.End,
		AllDay:      in.AllDay,
		EventType:   in.EventType,
		Location:    in.Location,
	}

	if in.Reference != nil {
		if err := s.validateReference(in.Reference); err != nil {
			return nil, err
		}

		event.RelatedType = &in.Reference.Type
		event.RelatedID = &in.Reference.ID
	}

	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

// Get returns the user's event by id.
func (s *Store) Get(userID, id uint) (*models.Event, error) {
	var event models.Event

	err := s.db.Preload("User").
		Where("id = ? AND user_id = ?", id, userID).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event", id)
		}
		return nil, err
	}

	return &event, nil
}

// Update applies the patch to the user's event. The merged start/end pair is
// re-validated, and the read-merge-write runs inside one transaction so a
// concurrent update cannot invalidate the check before the write commits.
func (s *Store) Update(userID, id uint, patch Patch) (*models.Event, error) {
	var event models.Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", id, userID).
			First(&event).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("event", id)
			}
			return err
		}

		if patch.Title != nil {
			if *patch.Title == "" {
				return apperr.Validation("title", "must not be empty")
			}
			event.Title = *patch.Title
		}

		if patch.Description != nil {
			event.Description = patch.Description
		}

		if patch.Start != nil {
			event.Start = *patch.Start
		}

		if patch.End != nil {
			event.End = *patch.End
		}

		if patch.AllDay != nil {
			event.AllDay = *patch.AllDay
		}

		if patch.EventType != nil {
			if !models.ValidEventType(*patch.EventType) {
				return apperr.Validation("event_type", "unknown event type")
			}
			event.EventType = *patch.EventType
		}

		if patch.Location != nil {
			event.Location = patch.Location
		}

		if patch.Reference != nil {
			if err := s.validateReference(patch.Reference); err != nil {
				return err
			}
			event.RelatedType = &patch.Reference.Type
			event.RelatedID = &patch.Reference.ID
		} else if patch.ClearReference {
			event.RelatedType = nil
			event.RelatedID = nil
		}

		if !event.End.After(event.Start) {
			return apperr.Validation("end", "must be after start")
		}

		return tx.Save(&event).Error
	})

	if err != nil {
		return nil, err
	}

	return &event, nil
}

// List returns the user's events ascending by start. A window restricts the
// result to events overlapping [From, To): start < To and end > From.
func (s *Store) List(userID uint, window *Window) ([]models.Event, error) {
	query := s.db.Preload("User").Where("user_id = ?", userID)

	if window != nil {
		query = query.Where(`start < ? AND "end" > ?`, window.To, window.From)
	}

	var items []models.Event

	if err := query.Order("start ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

// Delete removes the user's event by id.
func (s *Store) Delete(userID, id uint) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Event{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("event", id)
	}

	return nil
}
