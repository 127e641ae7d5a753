package notion

import (
	"context"

	"github.com/jomei/notionapi"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// Task database property names.
const (
	propTaskName   = "Task name"
	propTaskStatus = "Task Status"
	propDueDate    = "Due Date"
)

// QueryTasks returns tasks matching filter, sorted by due date.
func (c *Client) QueryTasks(ctx context.Context, filter schedule.TaskFilter) ([]schedule.Task, error) {
	var filters []notionapi.Filter
	if filter.Status != "" {
		filters = append(filters, notionapi.PropertyFilter{
			Property: propTaskStatus,
			Select:   &notionapi.SelectFilterCondition{Equals: filter.Status},
		})
	}
	for _, status := range filter.ExcludeStatuses {
		filters = append(filters, notionapi.PropertyFilter{
			Property: propTaskStatus,
			Select:   &notionapi.SelectFilterCondition{DoesNotEqual: status},
		})
	}
	bounds, err := c.dateBounds(propDueDate, filter.DueAfter, filter.DueBefore)
	if err != nil {
		return nil, err
	}
	filters = append(filters, bounds...)

	pages, err := c.query(ctx, c.tasksDB, combine(filters), ascending(propDueDate), filter.Limit)
	if err != nil {
		return nil, err
	}

	tasks := make([]schedule.Task, 0, len(pages))
	for i := range pages {
		tasks = append(tasks, toTask(&pages[i]))
	}
	return tasks, nil
}

// CreateTask creates a task; status defaults to Not started.
func (c *Client) CreateTask(ctx context.Context, input schedule.TaskInput) (*schedule.Task, error) {
	status := input.Status
	if status == "" {
		status = schedule.TaskStatusNotStarted
	}

	props := notionapi.Properties{
		propTaskName:   titleValue(input.Name),
		propTaskStatus: selectValue(status),
	}
	if input.DueDate != "" {
		props[propDueDate] = dateValue(input.DueDate)
	}

	page, err := c.createPage(ctx, c.tasksDB, props)
	if err != nil {
		return nil, err
	}
	task := toTask(page)
	return &task, nil
}

// UpdateTask writes only the fields set in patch.
func (c *Client) UpdateTask(ctx context.Context, id string, patch schedule.TaskPatch) (*schedule.Task, error) {
	props := notionapi.Properties{}
	if patch.Name != nil {
		props[propTaskName] = titleValue(*patch.Name)
	}
	if patch.Status != nil {
		props[propTaskStatus] = selectValue(*patch.Status)
	}
	if patch.DueDate != nil {
		props[propDueDate] = dateValue(*patch.DueDate)
	}

	page, err := c.updatePage(ctx, id, props)
	if err != nil {
		return nil, err
	}
	task := toTask(page)
	return &task, nil
}

func toTask(page *notionapi.Page) schedule.Task {
	props := page.Properties
	return schedule.Task{
		ID:      string(page.ID),
		URL:     page.URL,
		Name:    plainText(props[propTaskName]),
		Status:  selectName(props[propTaskStatus]),
		DueDate: dateStart(props[propDueDate]),
	}
}
