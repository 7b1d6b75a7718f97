// Package prompt builds the system prompt that grounds the chat assistant in
// the live event catalog.
package prompt

import (
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/planora/planora/pkg/catalog"
)

const systemTemplate = `You are Planora AI, a helpful assistant for an event discovery platform in Kochi, Kerala, India.

Your job is to help users find events from our database. You can ONLY recommend events that exist in our database.

Here are all the available events in our database:
{{.Events}}

Instructions:
1. When users ask about events, search through the available events and recommend relevant ones.
2. If the user's query matches any events, describe them helpfully and encourage the user to check them out.
3. If no events match the user's query, say so politely and suggest browsing our categories or checking back later.
4. Always be friendly and helpful.
5. When recommending an event, include its ID using this exact format: [EVENT_ID:<id>] so the app can display an event card.
6. You can recommend multiple events when relevant.
7. Consider date, category, location and keywords when matching events.
8. For questions about the current date, today is {{.Today}}.

Example response when events are found:
"Great question! I found some events that might interest you:

**Kochi Tech Meetup** - A networking evening for tech enthusiasts at Infopark. [EVENT_ID:3f2a9c1e-0b7d-4e5a-9c61-2d8e4f7a1b30]

**Startup Kerala Summit** - Perfect for founders looking to connect! [EVENT_ID:8c4e2b7a-5d1f-4a3c-b9e0-6f1d2c3a4b5e]"

Remember: you can ONLY recommend events from the database above. Never invent events that don't exist.`

var systemPrompt = template.Must(template.New("system").Parse(systemTemplate))

type promptData struct {
	Events string
	Today  string
}

// Build renders the system prompt for the given catalog. The output is a
// pure function of its inputs: the catalog is embedded as indented JSON in
// the order given and today is rendered as YYYY-MM-DD.
func Build(events []catalog.EventSummary, today time.Time) string {
	if events == nil {
		events = []catalog.EventSummary{}
	}

	// EventSummary holds only strings and a float, so marshalling cannot fail.
	data, _ := json.MarshalIndent(events, "", "  ")

	var b strings.Builder
	_ = systemPrompt.Execute(&b, promptData{
		Events: string(data),
		Today:  today.Format(time.DateOnly),
	})
	return b.String()
}
