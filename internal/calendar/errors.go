package calendar

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// classifyError turns a *googleapi.Error into a schedule.ProviderError.
// Other errors are returned unchanged.
func classifyError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	kind := schedule.KindUnknown
	switch apiErr.Code {
	case http.StatusNotFound, http.StatusGone:
		kind = schedule.KindNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		kind = schedule.KindPermission
	case http.StatusConflict:
		kind = schedule.KindConflict
	case http.StatusTooManyRequests:
		kind = schedule.KindRateLimit
	case http.StatusBadRequest:
		kind = schedule.KindValidation
	}

	message := apiErr.Message
	if message == "" {
		message = http.StatusText(apiErr.Code)
	}

	return &schedule.ProviderError{
		Provider: schedule.ProviderCalendar,
		Kind:     kind,
		Status:   apiErr.Code,
		Message:  message,
		Err:      err,
	}
}
