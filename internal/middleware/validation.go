package middleware

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
)

// Input limits for analysis requests.
const (
	MaxChannelIDLen = 64
	MaxQueryLen     = 100 // runes
	MinMaxResults   = 1
	MaxMaxResults   = 50 // search.list page size
)

var (
	// channelIDRe matches YouTube channel IDs (UC...) and legacy IDs: alphanumeric, dash, underscore.
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateChannelID checks that a channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 64 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateQuery trims a free-text search term and enforces its length.
func ValidateQuery(q string) (string, string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", "q is required"
	}
	if utf8.RuneCountInString(q) > MaxQueryLen {
		return "", "q must be at most 100 characters"
	}
	return q, ""
}

// ValidateMaxResults parses the optional max parameter. An empty value yields
// fallback; anything else must be an integer in [1, 50].
func ValidateMaxResults(raw string, fallback int) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if fallback < MinMaxResults || fallback > MaxMaxResults {
			return MaxMaxResults, ""
		}
		return fallback, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, "max must be an integer"
	}
	if n < MinMaxResults || n > MaxMaxResults {
		return 0, "max must be between 1 and 50"
	}
	return n, ""
}

// ValidateChannelIDs splits a comma-separated id list, validating each entry.
// Blank entries are dropped.
func ValidateChannelIDs(raw string) ([]string, string) {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, msg := ValidateChannelID(part)
		if msg != "" {
			return nil, msg
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, "ids is required"
	}
	return ids, ""
}
