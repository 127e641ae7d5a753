package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// maxPageSize is the largest page the database query endpoint returns.
const maxPageSize = 100

// Client reads and writes appointments and tasks.
type Client struct {
	api            *notionapi.Client
	appointmentsDB notionapi.DatabaseID
	tasksDB        notionapi.DatabaseID
	loc            *time.Location
}

var _ schedule.RecordProvider = (*Client)(nil)

// Config holds the Notion connection settings.
type Config struct {
	Token            string
	AppointmentsDBID string
	TasksDBID        string
	// Location resolves date-only filter bounds to instants.
	Location *time.Location
}

// NewClient creates a Notion client.
func NewClient(cfg Config, opts ...notionapi.ClientOption) *Client {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		api:            notionapi.NewClient(notionapi.Token(cfg.Token), opts...),
		appointmentsDB: notionapi.DatabaseID(cfg.AppointmentsDBID),
		tasksDB:        notionapi.DatabaseID(cfg.TasksDBID),
		loc:            loc,
	}
}

// query runs a database query and follows cursors until limit pages are
// collected or the results are exhausted. A zero limit means
// schedule.DefaultMaxResults; a negative limit reads every page.
func (c *Client) query(ctx context.Context, db notionapi.DatabaseID, filter notionapi.Filter, sorts []notionapi.SortObject, limit int) ([]notionapi.Page, error) {
	if db == "" {
		return nil, schedule.ErrNotConfigured
	}
	if limit == 0 {
		limit = schedule.DefaultMaxResults
	}
	unlimited := limit < 0

	pages := []notionapi.Page{}
	var cursor notionapi.Cursor
	for {
		pageSize := limit - len(pages)
		if unlimited || pageSize > maxPageSize {
			pageSize = maxPageSize
		}

		resp, err := c.api.Database.Query(ctx, db, &notionapi.DatabaseQueryRequest{
			Filter:      filter,
			Sorts:       sorts,
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query database: %w", classifyError(err))
		}

		for _, page := range resp.Results {
			pages = append(pages, page)
			if !unlimited && len(pages) >= limit {
				return pages, nil
			}
		}

		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

func (c *Client) createPage(ctx context.Context, db notionapi.DatabaseID, props notionapi.Properties) (*notionapi.Page, error) {
	if db == "" {
		return nil, schedule.ErrNotConfigured
	}
	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: db,
		},
		Properties: props,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", classifyError(err))
	}
	return page, nil
}

func (c *Client) updatePage(ctx context.Context, id string, props notionapi.Properties) (*notionapi.Page, error) {
	if id == "" {
		return nil, fmt.Errorf("notion_id is required")
	}
	page, err := c.api.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: props,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update page: %w", classifyError(err))
	}
	return page, nil
}

// dateBounds converts inclusive YYYY-MM-DD bounds on property into filter
// conditions: on or after start midnight, before the midnight after end.
func (c *Client) dateBounds(property, after, before string) ([]notionapi.Filter, error) {
	var filters []notionapi.Filter
	if after != "" {
		day, err := schedule.ParseDate(after, c.loc)
		if err != nil {
			return nil, err
		}
		d := notionapi.Date(day)
		filters = append(filters, notionapi.PropertyFilter{
			Property: property,
			Date:     &notionapi.DateFilterCondition{OnOrAfter: &d},
		})
	}
	if before != "" {
		day, err := schedule.ParseDate(before, c.loc)
		if err != nil {
			return nil, err
		}
		d := notionapi.Date(day.AddDate(0, 0, 1))
		filters = append(filters, notionapi.PropertyFilter{
			Property: property,
			Date:     &notionapi.DateFilterCondition{Before: &d},
		})
	}
	return filters, nil
}

// combine returns nil, the single filter, or an "and" of all filters.
func combine(filters []notionapi.Filter) notionapi.Filter {
	switch len(filters) {
	case 0:
		return nil
	case 1:
		return filters[0]
	default:
		return notionapi.AndCompoundFilter(filters)
	}
}

func ascending(property string) []notionapi.SortObject {
	return []notionapi.SortObject{{Property: property, Direction: notionapi.SortOrderASC}}
}
