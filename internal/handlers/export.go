package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"

	"github.com/agrimarket-dev/agrimarket/db"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/utils"
)

// ExportOrdersCSV streams the customer's orders as a CSV download.
func ExportOrdersCSV(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var orders []models.Order

	err = db.DB.Where("customer_id = ?", userID).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	ctx.Status(http.StatusOK)

	writer := csv.NewWriter(ctx.Writer)

	if err := writer.Write([]string{"Order ID", "Date", "Status", "Total"}); err != nil {
		log.Printf("Failed to write CSV header: %v", err)
		return
	}

	for _, order := range orders {
		record := []string{
			strconv.FormatUint(uint64(order.ID), 10),
			order.CreatedAt.Format("2006-01-02"),
			order.Status,
			fmt.Sprintf("%.2f", order.Total()),
		}

		if err := writer.Write(record); err != nil {
			log.Printf("Failed to write CSV row for order %d: %v", order.ID, err)
			return
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		log.Printf("Failed to flush CSV: %v", err)
	}
}

// ExportEventsICS renders the user's events as an iCalendar file, optionally
// restricted to a time range.
func ExportEventsICS(ctx *gin.Context) {
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

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for _, event := range items {
		entry := cal.AddEvent(fmt.Sprintf("event-%d@agrimarket", event.ID))
		entry.SetSummary(event.Title)
		entry.SetStartAt(event.Start)
		entry.SetEndAt(event.End)
		entry.SetDtStampTime(event.CreatedAt)

		if event.Description != nil {
			entry.SetDescription(*event.Description)
		}

		if event.Location != nil {
			entry.SetLocation(*event.Location)
		}
	}

	ctx.Header("Content-Disposition", `attachment; filename="farm_events.ics"`)
	ctx.Data(http.StatusOK, "text/calendar", []byte(cal.Serialize()))
}
