package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrimarket-dev/agrimarket/internal/entityref"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/notifications"
	"github.com/agrimarket-dev/agrimarket/internal/utils"
	"github.com/agrimarket-dev/agrimarket/internal/views"
)

type CreateNotificationRequest struct {
	Message            string  `json:"message" binding:"required"`
	NotificationType   string  `json:"notification_type" binding:"required"`
	RelatedContentType *string `json:"related_content_type"`
	RelatedObjectID    *uint   `json:"related_object_id"`
}

type NotificationResponse struct {
	ID                 uint              `json:"id"`
	User               uint              `json:"user"`
	Message            string            `json:"message"`
	Read               bool              `json:"read"`
	NotificationType   string            `json:"notification_type"`
	CreatedAt          time.Time         `json:"created_at"`
	RelatedContentType *string           `json:"related_content_type"`
	RelatedObjectID    *uint             `json:"related_object_id"`
	TimeAgo            string            `json:"time_ago"`
	RelatedObject      *entityref.Entity `json:"related_object,omitempty"`
}

// serializeNotification computes the derived fields at read time. A related
// record that no longer resolves leaves related_object empty; the
// notification itself stays readable.
func serializeNotification(n models.Notification, now time.Time) (NotificationResponse, error) {
	related, err := views.DisplaySummary(n.Reference(), Registry)

	if err != nil {
		return NotificationResponse{}, err
	}

	return NotificationResponse{
		ID:                 n.ID,
		User:               n.UserID,
		Message:            n.Message,
		Read:               n.Read,
		NotificationType:   n.NotificationType,
		CreatedAt:          n.CreatedAt,
		RelatedContentType: n.RelatedType,
		RelatedObjectID:    n.RelatedID,
		TimeAgo:            views.RelativeTime(n.CreatedAt, now),
		RelatedObject:      related,
	}, nil
}

// referenceFromPair validates the optional (type, id) request pair.
func referenceFromPair(relatedType *string, relatedID *uint) (*entityref.Reference, bool) {
	if relatedType == nil && relatedID == nil {
		return nil, true
	}

	if relatedType == nil || relatedID == nil {
		return nil, false
	}

	return &entityref.Reference{Type: *relatedType, ID: *relatedID}, true
}

func ListNotifications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var readFilter *bool

	if raw := ctx.Query("read"); raw != "" {
		parsed, err := strconv.ParseBool(raw)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid read filter"})
			return
		}

		readFilter = &parsed
	}

	items, err := NotificationStore.List(userID, readFilter)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	now := time.Now()
	response := make([]NotificationResponse, 0, len(items))

	for _, n := range items {
		serialized, err := serializeNotification(n, now)

		if err != nil {
			respondStoreError(ctx, err)
			return
		}

		response = append(response, serialized)
	}

	ctx.JSON(http.StatusOK, response)
}

func UnreadNotificationCount(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	count, err := NotificationStore.UnreadCount(userID)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"unread": count})
}

func CreateNotification(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateNotificationRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reference, ok := referenceFromPair(req.RelatedContentType, req.RelatedObjectID)

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "related_content_type and related_object_id must be provided together"})
		return
	}

	notification, err := NotificationStore.Create(userID, notifications.CreateInput{
		Message:          req.Message,
		NotificationType: req.NotificationType,
		Reference:        reference,
	})

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	serialized, err := serializeNotification(*notification, time.Now())

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	BroadcastNotification(userID, serialized)

	ctx.JSON(http.StatusCreated, serialized)
}

func MarkNotificationRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notificationID, err := utils.GetIDParam(ctx, "notification_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := NotificationStore.MarkRead(userID, notificationID)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	serialized, err := serializeNotification(*notification, time.Now())

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, serialized)
}
