package clients

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrMissingAccessToken = errors.New("Missing access token")

// APIError is a downstream response with a status other than the expected one.
// Message is ready for display.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorPaths are tried in order; the first present, non-empty value wins.
var errorPaths = []string{"meta.message", "detail", "errors"}

// ExtractError turns an auth service error response into a display message.
func ExtractError(statusCode int, body []byte) string {
	if gjson.ValidBytes(body) {
		if parsed := gjson.ParseBytes(body); parsed.IsObject() {
			for _, path := range errorPaths {
				if v := parsed.Get(path); isSet(v) {
					return fmt.Sprintf("%d: %s", statusCode, display(v))
				}
			}
		}
	}
	return fmt.Sprintf("Erreur %d: %s", statusCode, body)
}

func isSet(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True:
		return true
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) > 0
		}
		return len(v.Map()) > 0
	default:
		return false
	}
}

func display(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}
