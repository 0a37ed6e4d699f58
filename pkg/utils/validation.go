package utils

import (
	"fmt"
	"strings"

	"social-lens-go/pkg/models"
)

// NormalizeHandle trims and validates a handle for a platform, returning the
// canonical form the scraping actor expects. Instagram handles lose a leading
// "@"; LinkedIn handles must be full profile URLs.
func NormalizeHandle(platform models.Platform, raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("handle is required")
	}

	switch platform {
	case models.PlatformInstagram:
		s = strings.TrimPrefix(s, "@")
		if s == "" {
			return "", fmt.Errorf("handle is required")
		}
		return s, nil
	case models.PlatformLinkedIn:
		if !strings.Contains(s, "linkedin.com/in/") {
			return "", fmt.Errorf("linkedin handle must be a profile URL containing linkedin.com/in/")
		}
		return s, nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", platform)
	}
}
