package utils

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"kirana/globals"

	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

func ParseInt(s string) int {
	val, _ := strconv.Atoi(strings.TrimSpace(s))
	return val
}

// ParseDate accepts "2006-01-02" or RFC3339 timestamps.
func ParseDate(s string) *time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}
