// Package calendar mirrors due-dated tasks into a Google Calendar as all-day
// events. Events carry the task id in a private extended property, so a sync
// pass can always find the event it created before and never duplicates.
package calendar

import (
	"context"
	"fmt"

	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const taskPropertyKey = "taskplanner_id"

// Client wraps the Calendar API for one named calendar.
type Client struct {
	srv        *calendarapi.Service
	calendarID string
}

// NewClient authenticates against the Calendar API using credentials and the
// token cache under dir, and resolves the calendar by its display name.
func NewClient(ctx context.Context, dir, calendarName string) (*Client, error) {
	client, err := httpClient(ctx, dir)
	if err != nil {
		return nil, err
	}

	srv, err := calendarapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	list, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	for _, item := range list.Items {
		if item.Summary == calendarName {
			return &Client{srv: srv, calendarID: item.Id}, nil
		}
	}
	return nil, fmt.Errorf("calendar %q not found", calendarName)
}

func (c *Client) findEvent(ctx context.Context, taskID int) (*calendarapi.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%d", taskPropertyKey, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search event for task %d: %w", taskID, err)
	}
	if len(events.Items) == 0 {
		return nil, nil
	}
	return events.Items[0], nil
}
