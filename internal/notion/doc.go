// Package notion implements the schedule record provider on top of the
// Notion API. Appointments and tasks live in two databases whose property
// names are fixed by the workspace template.
package notion
