package api

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ServerError is a non-2xx backend response with whatever human-readable
// message could be dug out of the body.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// parseServerError extracts a message from the error body. The backend
// is not consistent: plain {message}, PascalCase {Message}, an
// ASP.NET-style {errors: {field: [msgs]}} map, or a raw string body all
// occur in the wild.
func parseServerError(statusCode int, body []byte) *ServerError {
	msg := extractMessage(body)
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &ServerError{StatusCode: statusCode, Message: msg}
}

func extractMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return truncate(strings.TrimSpace(string(body)), 512)
	}

	for _, key := range []string{"message", "Message"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}

	if errMap, ok := payload["errors"].(map[string]interface{}); ok {
		var parts []string
		keys := make([]string, 0, len(errMap))
		for k := range errMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch v := errMap[k].(type) {
			case []interface{}:
				for _, item := range v {
					parts = append(parts, fmt.Sprint(item))
				}
			default:
				parts = append(parts, fmt.Sprint(v))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ; ")
		}
	}

	// Fallback: stringify small bodies so at least something is shown.
	return truncate(strings.TrimSpace(string(body)), 512)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
