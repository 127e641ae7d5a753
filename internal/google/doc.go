// Package google provides OAuth2 authentication for the Google Calendar API.
//
// Credentials are an installed-app ("Desktop app") OAuth client downloaded
// from the Google Cloud Console. The user token is stored as JSON next to
// them and refreshed tokens are written back so the refresh survives
// restarts.
package google
