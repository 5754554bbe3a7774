package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

var (
	// The storefront is a Vite app; cover its dev server and preview ports
	// out of the box.
	defaultOrigins = []string{
		"http://localhost:5173",
		"http://localhost:4173",
		"http://127.0.0.1:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
