package google

import "google.golang.org/api/calendar/v3"

// DefaultOAuthScopes are the scopes requested during authorization.
// Calendar write access covers reading, creating, updating and deleting events.
var DefaultOAuthScopes = []string{
	calendar.CalendarScope,
}
