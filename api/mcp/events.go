package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/planora/planora/pkg/catalog"
)

var (
	listEventsToolName    = "list_events"
	listEventsDescription = "List upcoming events in Kochi from the planora catalog, ordered by date. Optionally filter by category, free text, date range, or price."

	getEventToolName    = "get_event"
	getEventDescription = "Get the full details of a single event by its id."
)

// ListEventsInput represents the input arguments for the list_events tool.
type ListEventsInput struct {
	Category string `json:"category,omitempty" jsonschema:"category name or slug to filter by (e.g. music)"`
	Query    string `json:"query,omitempty" jsonschema:"case-insensitive text matched against title, description and location"`
	From     string `json:"from,omitempty" jsonschema:"earliest event date, YYYY-MM-DD"`
	To       string `json:"to,omitempty" jsonschema:"latest event date, YYYY-MM-DD"`
	FreeOnly bool   `json:"free_only,omitempty" jsonschema:"only return events with no ticket price"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of events to return (default: all)"`
}

// ListEventsOutput represents the output of the list_events tool.
type ListEventsOutput struct {
	Events []catalog.Event `json:"events"`
	Count  int             `json:"count"`
}

// GetEventInput represents the input arguments for the get_event tool.
type GetEventInput struct {
	ID string `json:"id" jsonschema:"the event id"`
}

// GetEventOutput represents the output of the get_event tool.
type GetEventOutput struct {
	Event catalog.Event `json:"event"`
}

func (s *Server) handleListEvents(ctx context.Context, _ *mcp.CallToolRequest, input ListEventsInput) (*mcp.CallToolResult, ListEventsOutput, error) {
	logger := s.config.Logger
	logger.Debug("MCP list_events request",
		"category", input.Category,
		"query", input.Query,
		"from", input.From,
		"to", input.To,
	)

	events, err := s.config.Store.ListEventsWithCategory(ctx)
	if err != nil {
		logger.Error("failed to list events", "error", err)
		return errorResult("Failed to fetch events: %v", err), ListEventsOutput{}, nil
	}

	matched := make([]catalog.Event, 0, len(events))
	for _, e := range events {
		if matches(e, input) {
			matched = append(matched, e)
		}
	}
	if input.Limit > 0 && len(matched) > input.Limit {
		matched = matched[:input.Limit]
	}

	output := ListEventsOutput{
		Events: matched,
		Count:  len(matched),
	}
	return jsonResult(output), output, nil
}

func (s *Server) handleGetEvent(ctx context.Context, _ *mcp.CallToolRequest, input GetEventInput) (*mcp.CallToolResult, GetEventOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return errorResult("id is required"), GetEventOutput{}, nil
	}

	events, err := s.config.Store.ListEventsWithCategory(ctx)
	if err != nil {
		s.config.Logger.Error("failed to list events", "error", err)
		return errorResult("Failed to fetch events: %v", err), GetEventOutput{}, nil
	}

	event, ok := catalog.Find(events, input.ID)
	if !ok {
		return errorResult("%v", catalog.NotFoundError{ID: input.ID}), GetEventOutput{}, nil
	}

	output := GetEventOutput{Event: event}
	return jsonResult(output), output, nil
}

func matches(e catalog.Event, in ListEventsInput) bool {
	if in.Category != "" &&
		!strings.EqualFold(in.Category, e.CategorySlug) &&
		!strings.EqualFold(in.Category, e.CategoryName) {
		return false
	}
	if in.From != "" && e.Date < in.From {
		return false
	}
	if in.To != "" && e.Date > in.To {
		return false
	}
	if in.FreeOnly && e.Price > 0 {
		return false
	}
	if in.Query != "" {
		q := strings.ToLower(in.Query)
		haystack := strings.ToLower(strings.Join([]string{e.Title, e.ShortDescription, e.Description, e.Location}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// jsonResult serializes the structured output as JSON for the text field.
// Tools returning structured content also return it in a TextContent block
// for backwards compatibility.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult("Failed to serialize results: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}
