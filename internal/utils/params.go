package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetIDParam parses a positive integer path parameter.
func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)

	if err != nil || id == 0 {
		return 0, fmt.Errorf("Invalid %s", name)
	}

	return uint(id), nil
}

// GetTimeQuery parses an optional RFC 3339 query parameter. A missing
// parameter returns (nil, nil).
func GetTimeQuery(ctx *gin.Context, name string) (*time.Time, error) {
	raw := ctx.Query(name)

	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)

	if err != nil {
		return nil, fmt.Errorf("Invalid %s: must be RFC 3339", name)
	}

	return &t, nil
}
