package cliui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/utils"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)
	featuredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// FormatPrice renders a price in rupees, or "Free" for zero.
func FormatPrice(price float64) string {
	if price <= 0 {
		return "Free"
	}
	if price == float64(int64(price)) {
		return fmt.Sprintf("₹%d", int64(price))
	}
	return fmt.Sprintf("₹%.2f", price)
}

// FormatWhen renders an event date and time as "Thu, Oct 22 · 7:30 PM".
// Values that do not parse are shown as stored.
func FormatWhen(date, clock string) string {
	when := date
	if d, err := time.Parse(time.DateOnly, date); err == nil {
		when = d.Format("Mon, Jan 2")
	}
	if clock == "" {
		return when
	}
	if t, err := time.Parse(time.TimeOnly, clock); err == nil {
		return when + " · " + t.Format(time.Kitchen)
	}
	return when + " · " + clock
}

// EventCard renders a compact bordered card for an event.
func EventCard(e catalog.Event, width int) string {
	if width <= 0 || width > defaultWidth {
		width = defaultWidth
	}

	title := NameStyle.Render(e.Title)
	if e.Featured {
		title += " " + featuredStyle.Render("★")
	}

	lines := []string{title}
	if e.CategoryName != "" {
		lines = append(lines, DimStyle.Render(e.CategoryName))
	}
	lines = append(lines,
		KeyStyle.Render("when  ")+ValueStyle.Render(FormatWhen(e.Date, e.Time)),
		KeyStyle.Render("where ")+ValueStyle.Render(e.Location),
		KeyStyle.Render("price ")+ValueStyle.Render(FormatPrice(e.Price)),
	)

	blurb := e.ShortDescription
	if blurb == "" {
		blurb = e.Description
	}
	if blurb != "" {
		lines = append(lines, DimStyle.Render(utils.Truncate(blurb, width-6)))
	}

	return cardStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}
