package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"majordomo/internal/tools"
)

// Event is one calendar entry.
type Event struct {
	ID          string
	Title       string
	Start       time.Time
	Duration    time.Duration
	Attendees   []string
	Description string
}

// CalendarProvider is the narrow scheduling contract the calendar tool
// needs. A real provider wraps an external calendar service.
type CalendarProvider interface {
	Schedule(ctx context.Context, event Event) (Event, error)
	Upcoming(ctx context.Context, days int) ([]Event, error)
}

// MemoryCalendar is the in-process default provider.
type MemoryCalendar struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

// NewMemoryCalendar creates an empty in-memory calendar.
func NewMemoryCalendar() *MemoryCalendar {
	return &MemoryCalendar{now: time.Now}
}

// Schedule stores the event, assigning an ID.
func (c *MemoryCalendar) Schedule(ctx context.Context, event Event) (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	event.ID = uuid.NewString()
	c.events = append(c.events, event)
	return event, nil
}

// Upcoming returns events starting within the next N days, soonest first.
func (c *MemoryCalendar) Upcoming(ctx context.Context, days int) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	horizon := now.AddDate(0, 0, days)

	var out []Event
	for _, e := range c.events {
		if e.Start.After(now) && e.Start.Before(horizon) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

const startTimeLayout = "2006-01-02 15:04"

// NewCalendarTool builds the calendar tool over a provider.
func NewCalendarTool(provider CalendarProvider) *tools.Tool {
	return &tools.Tool{
		Name:         "calendar_tool",
		Description:  "Schedules meetings and lists upcoming ones",
		DataCategory: "calendar",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"action":           {Type: "string", Description: "schedule (default) or list"},
				"title":            {Type: "string", Description: "Meeting title"},
				"start_time":       {Type: "string", Description: "Start time, e.g. 2025-10-26 14:00"},
				"duration_minutes": {Type: "number", Description: "Meeting length in minutes (default 60)"},
				"attendees":        {Type: "string", Description: "Comma-separated attendee emails"},
				"description":      {Type: "string", Description: "Meeting description"},
				"days":             {Type: "number", Description: "Look-ahead window for list (default 7)"},
			},
		},
		Execute: func(ctx context.Context, params map[string]any) (string, error) {
			switch stringParam(params, "action") {
			case "list":
				return listMeetings(ctx, provider, intParam(params, "days", 7))
			default:
				return scheduleMeeting(ctx, provider, params)
			}
		},
	}
}

func scheduleMeeting(ctx context.Context, provider CalendarProvider, params map[string]any) (string, error) {
	title := stringParam(params, "title")
	startRaw := stringParam(params, "start_time")

	if title == "" || startRaw == "" {
		return meetingQuestions(title, startRaw), nil
	}

	start, err := time.ParseInLocation(startTimeLayout, startRaw, time.Local)
	if err != nil {
		return "", fmt.Errorf("unparseable start time %q (want e.g. 2025-10-26 14:00): %w", startRaw, err)
	}

	event := Event{
		Title:       title,
		Start:       start,
		Duration:    time.Duration(intParam(params, "duration_minutes", 60)) * time.Minute,
		Description: stringParam(params, "description"),
	}
	if attendees := stringParam(params, "attendees"); attendees != "" {
		for _, a := range strings.Split(attendees, ",") {
			if a = strings.TrimSpace(a); a != "" {
				event.Attendees = append(event.Attendees, a)
			}
		}
	}

	created, err := provider.Schedule(ctx, event)
	if err != nil {
		return "", fmt.Errorf("scheduling meeting: %w", err)
	}
	return fmt.Sprintf("Meeting scheduled: %q at %s (id %s)",
		created.Title, created.Start.Format(startTimeLayout), created.ID), nil
}

func listMeetings(ctx context.Context, provider CalendarProvider, days int) (string, error) {
	events, err := provider.Upcoming(ctx, days)
	if err != nil {
		return "", fmt.Errorf("listing meetings: %w", err)
	}
	if len(events) == 0 {
		return fmt.Sprintf("No upcoming meetings in the next %d days.", days), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Upcoming meetings (next %d days):\n", days)
	for _, e := range events {
		fmt.Fprintf(&b, "- %s at %s\n", e.Title, e.Start.Format(startTimeLayout))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func meetingQuestions(title, start string) string {
	lines := []string{"To schedule this meeting, I need some information:"}
	n := 1
	if title == "" {
		lines = append(lines, fmt.Sprintf("%d. What is the meeting about?", n))
		n++
	}
	if start == "" {
		lines = append(lines, fmt.Sprintf("%d. When should it start? (e.g. 2025-10-26 14:00)", n))
	}
	return strings.Join(lines, "\n")
}

// intParam reads a numeric parameter, tolerating JSON float64 decoding.
func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
