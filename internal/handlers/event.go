package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrimarket-dev/agrimarket/internal/entityref"
	"github.com/agrimarket-dev/agrimarket/internal/events"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/types"
	"github.com/agrimarket-dev/agrimarket/internal/utils"
	"github.com/agrimarket-dev/agrimarket/internal/views"
)

type CreateEventRequest struct {
	Title              string    `json:"title" binding:"required"`
	Description        *string   `json:"description"`
	Start              time.Time `json:"start" binding:"required"`
	End                time.Time `json:"end" binding:"required"`
	AllDay             bool      `json:"all_day"`
	EventType          string    `json:"event_type"`
	Location           *string   `json:"location"`
	RelatedContentType *string   `json:"related_content_type"`
	RelatedObjectID    *uint     `json:"related_object_id"`
}

type UpdateEventRequest struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Start              *time.Time `json:"start"`
	End                *time.Time `json:"end"`
	AllDay             *bool      `json:"all_day"`
	EventType          *string    `json:"event_type"`
	Location           *string    `json:"location"`
	RelatedContentType *string    `json:"related_content_type"`
	RelatedObjectID    *uint      `json:"related_object_id"`
	ClearReference     bool       `json:"clear_reference"`
}

type EventResponse struct {
	ID                   uint               `json:"id"`
	Title                string             `json:"title"`
	Description          *string            `json:"description"`
	Start                time.Time          `json:"start"`
	End                  time.Time          `json:"end"`
	AllDay               bool               `json:"all_day"`
	EventType            string             `json:"event_type"`
	Location             *string            `json:"location"`
	User                 uint               `json:"user"`
	UserDetails          types.UserResponse `json:"user_details"`
	RelatedContentType   *string            `json:"related_content_type"`
	RelatedObjectID      *uint              `json:"related_object_id"`
	RelatedObjectDetails *entityref.Entity  `json:"related_object_details,omitempty"`
	Duration             string             `json:"duration"`
	IsPast               bool               `json:"is_past"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

type CalendarEntry struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	AllDay    bool      `json:"all_day"`
	EventType string    `json:"event_type"`
	Color     string    `json:"color"`
}

// serializeEvent computes duration, past flag and the related-object summary
// at read time; none of them are stored.
func serializeEvent(event models.Event, now time.Time) (EventResponse, error) {
	related, err := views.DisplaySummary(event.Reference(), Registry)

	if err != nil {
		return EventResponse{}, err
	}

	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Start:       event.Start,
		End:         event.End,
		AllDay:      event.AllDay,
		EventType:   event.EventType,
		Location:    event.Location,
		User:        event.UserID,
		UserDetails: types.UserResponse{
			ID:    event.User.ID,
			Name:  event.User.Name,
			Email: event.User.Email,
		},
		RelatedContentType:   event.RelatedType,
		RelatedObjectID:      event.RelatedID,
		RelatedObjectDetails: related,
		Duration:             views.DurationBucket(event.Start, event.End),
		IsPast:               views.IsPast(event.End, now),
		CreatedAt:            event.CreatedAt,
		UpdatedAt:            event.UpdatedAt,
	}, nil
}

// eventWindow parses the optional from/to query pair into a range filter.
func eventWindow(ctx *gin.Context) (*events.Window, bool) {
	from, err := utils.GetTimeQuery(ctx, "from")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	to, err := utils.GetTimeQuery(ctx, "to")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	if from == nil && to == nil {
		return nil, true
	}

	if from == nil || to == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "from and to must be provided together"})
		return nil, false
	}

	return &events.Window{From: *from, To: *to}, true
}

func ListEvents(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	window, ok := eventWindow(ctx)

	if !ok {
		return
	}

	items, err := EventStore.List(userID, window)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	now := time.Now()
	response := make([]EventResponse, 0, len(items))

	for _, event := range items {
		serialized, err := serializeEvent(event, now)

		if err != nil {
			respondStoreError(ctx, err)
			return
		}

		response = append(response, serialized)
	}

	ctx.JSON(http.StatusOK, response)
}

func GetEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetIDParam(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := EventStore.Get(userID, eventID)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	serialized, err := serializeEvent(*event, time.Now())

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, serialized)
}

func CreateEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateEventRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reference, ok := referenceFromPair(req.RelatedContentType, req.RelatedObjectID)

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "related_content_type and related_object_id must be provided together"})
		return
	}

	event, err := EventStore.Create(userID, events.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		AllDay:      req.AllDay,
		EventType:   req.EventType,
		Location:    req.Location,
		Reference:   reference,
	})

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	created, err := EventStore.Get(userID, event.ID)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	serialized, err := serializeEvent(*created, time.Now())

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, serialized)
}

func UpdateEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetIDParam(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateEventRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reference, ok := referenceFromPair(req.RelatedContentType, req.RelatedObjectID)

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "related_content_type and related_object_id must be provided together"})
		return
	}

	_, err = EventStore.Update(userID, eventID, events.Patch{
		Title:          req.Title,
		Description:    req.Description,
		Start:          req.Start,
		End:            req.End,
		AllDay:         req.AllDay,
		EventType:      req.EventType,
		Location:       req.Location,
		Reference:      reference,
		ClearReference: req.ClearReference,
	})

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	updated, err := EventStore.Get(userID, eventID)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	serialized, err := serializeEvent(*updated, time.Now())

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, serialized)
}

func DeleteEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetIDParam(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := EventStore.Delete(userID, eventID); err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ListEventTypes(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.EventTypeChoices())
}

// CalendarView serves the compact colored entries used by calendar grids.
func CalendarView(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	window, ok := eventWindow(ctx)

	if !ok {
		return
	}

	items, err := EventStore.List(userID, window)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	entries := make([]CalendarEntry, 0, len(items))

	for _, event := range items {
		entries = append(entries, CalendarEntry{
			ID:        event.ID,
			Title:     event.Title,
			Start:     event.Start,
			End:       event.End,
			AllDay:    event.AllDay,
			EventType: event.EventType,
			Color:     views.ColorFor(event.EventType),
		})
	}

	ctx.JSON(http.StatusOK, entries)
}
