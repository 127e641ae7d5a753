package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

func titleValue(s string) notionapi.TitleProperty {
	return notionapi.TitleProperty{Title: richText(s)}
}

func richTextValue(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{RichText: richText(s)}
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{Text: &notionapi.Text{Content: s}}}
}

func selectValue(name string) notionapi.SelectProperty {
	return notionapi.SelectProperty{Select: notionapi.Option{Name: name}}
}

func statusValue(name string) notionapi.StatusProperty {
	return notionapi.StatusProperty{Status: notionapi.Option{Name: name}}
}

// dateProperty writes a date property from the caller's ISO string as-is,
// so a plain YYYY-MM-DD stays a date and a naive timestamp keeps its
// wall-clock time. The time zone is left to Notion. A nil Date clears the
// property.
type dateProperty struct {
	Type notionapi.PropertyType `json:"type,omitempty"`
	Date *dateRange             `json:"date"`
}

type dateRange struct {
	Start    string  `json:"start"`
	TimeZone *string `json:"time_zone"`
}

func (p dateProperty) GetID() string                   { return "" }
func (p dateProperty) GetType() notionapi.PropertyType { return notionapi.PropertyTypeDate }

// dateValue returns the property for iso. Notion rejects an empty start,
// so "" becomes {"date": null}.
func dateValue(iso string) dateProperty {
	if iso == "" {
		return dateProperty{}
	}
	return dateProperty{Type: notionapi.PropertyTypeDate, Date: &dateRange{Start: iso}}
}

// plainText concatenates a title or rich text property.
func plainText(p notionapi.Property) string {
	switch v := p.(type) {
	case *notionapi.TitleProperty:
		return joinRichText(v.Title)
	case notionapi.TitleProperty:
		return joinRichText(v.Title)
	case *notionapi.RichTextProperty:
		return joinRichText(v.RichText)
	case notionapi.RichTextProperty:
		return joinRichText(v.RichText)
	}
	return ""
}

func joinRichText(items []notionapi.RichText) string {
	var b strings.Builder
	for _, item := range items {
		switch {
		case item.PlainText != "":
			b.WriteString(item.PlainText)
		case item.Text != nil:
			b.WriteString(item.Text.Content)
		}
	}
	return b.String()
}

func selectName(p notionapi.Property) *string {
	var name string
	switch v := p.(type) {
	case *notionapi.SelectProperty:
		name = v.Select.Name
	case notionapi.SelectProperty:
		name = v.Select.Name
	}
	if name == "" {
		return nil
	}
	return schedule.StringPtr(name)
}

func statusName(p notionapi.Property) *string {
	var name string
	switch v := p.(type) {
	case *notionapi.StatusProperty:
		name = v.Status.Name
	case notionapi.StatusProperty:
		name = v.Status.Name
	}
	if name == "" {
		return nil
	}
	return schedule.StringPtr(name)
}

// dateStart returns the start of a date property. Date-only values, which
// decode as UTC midnight, are rendered as YYYY-MM-DD.
func dateStart(p notionapi.Property) *string {
	var obj *notionapi.DateObject
	switch v := p.(type) {
	case *notionapi.DateProperty:
		obj = v.Date
	case notionapi.DateProperty:
		obj = v.Date
	}
	if obj == nil || obj.Start == nil {
		return nil
	}
	return schedule.StringPtr(formatDate(time.Time(*obj.Start)))
}

func formatDate(t time.Time) string {
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(schedule.DateLayout)
	}
	return t.Format(time.RFC3339)
}
