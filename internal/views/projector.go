// Package views computes the read-only representations served alongside
// notifications and events: relative timestamps, duration buckets, event
// colors and resolved reference summaries. Nothing here is persisted; every
// value is recomputed at serialization time.
package views

import (
	"fmt"
	"time"

	"github.com/agrimarket-dev/agrimarket/internal/entityref"
)

const (
	ColorHarvest     = "#28a745"
	ColorDelivery    = "#007bff"
	ColorMaintenance = "#ffc107"
	ColorMarket      = "#dc3545"
	ColorOther       = "#6c757d"
)

// RelativeTime renders how long ago t was, as of now.
func RelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)

	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(elapsed.Hours()))
	case elapsed < 30*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(elapsed.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// DurationBucket renders end-start in the largest unit it does not fill a
// whole step of: under a minute in seconds, under an hour in minutes, under
// a day in hours, otherwise days. The count is floored, and boundary values
// roll into the larger unit (exactly 60s is "1 minutes").
func DurationBucket(start, end time.Time) string {
	seconds := int64(end.Sub(start) / time.Second)

	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%d minutes", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d hours", seconds/3600)
	default:
		return fmt.Sprintf("%d days", seconds/86400)
	}
}

// IsPast reports whether the event has ended as of now.
func IsPast(end, now time.Time) bool {
	return end.Before(now)
}

// ColorFor maps an event kind to its calendar color. Unknown kinds get the
// "other" color rather than failing.
func ColorFor(eventType string) string {
	switch eventType {
	case "harvest":
		return ColorHarvest
	case "delivery":
		return ColorDelivery
	case "maintenance":
		return ColorMaintenance
	case "market":
		return ColorMarket
	default:
		return ColorOther
	}
}

// DisplaySummary resolves a reference into a short entity summary. A nil
// reference or a target that no longer exists yields (nil, nil); the record
// carrying the reference stays readable regardless of the target's fate.
// Resolver infrastructure failures are returned as errors.
func DisplaySummary(ref *entityref.Reference, registry *entityref.Registry) (*entityref.Entity, error) {
	if ref == nil {
		return nil, nil
	}

	return registry.Resolve(ref.Type, ref.ID)
}
