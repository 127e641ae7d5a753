package notion

import (
	"errors"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// classifyError turns a *notionapi.Error into a schedule.ProviderError.
// Other errors are returned unchanged.
func classifyError(err error) error {
	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	code := string(apiErr.Code)
	kind := schedule.KindUnknown
	switch {
	case code == "object_not_found" || apiErr.Status == http.StatusNotFound:
		kind = schedule.KindNotFound
	case code == "unauthorized" || apiErr.Status == http.StatusUnauthorized:
		kind = schedule.KindPermission
	case code == "validation_error":
		kind = schedule.KindValidation
	case code == "rate_limited" || apiErr.Status == http.StatusTooManyRequests:
		kind = schedule.KindRateLimit
	case code == "conflict_error":
		kind = schedule.KindConflict
	}

	return &schedule.ProviderError{
		Provider: schedule.ProviderNotion,
		Kind:     kind,
		Status:   apiErr.Status,
		Code:     code,
		Message:  apiErr.Message,
		Err:      err,
	}
}
