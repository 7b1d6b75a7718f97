package catalog

import (
	"time"

	"github.com/google/uuid"
)

// demoNamespace scopes the deterministic ids of the demo catalog.
var demoNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://planora.app/demo"))

// DemoID returns the deterministic id for a demo record key.
func DemoID(key string) string {
	return uuid.NewSHA1(demoNamespace, []byte(key)).String()
}

type demoEvent struct {
	key         string
	title       string
	short       string
	description string
	dayOffset   int
	time        string
	location    string
	address     string
	price       float64
	category    string
	featured    bool
}

var demoCategories = []Category{
	{Name: "Music", Slug: "music"},
	{Name: "Technology", Slug: "technology"},
	{Name: "Food & Drink", Slug: "food-drink"},
	{Name: "Arts & Culture", Slug: "arts-culture"},
	{Name: "Sports & Fitness", Slug: "sports-fitness"},
	{Name: "Workshops", Slug: "workshops"},
}

var demoEvents = []demoEvent{
	{
		key:         "kochi-jazz-night",
		title:       "Kochi Jazz Night",
		short:       "An evening of live jazz by the backwaters.",
		description: "Local and touring jazz trios take the stage at the old harbour warehouse for a night of standards, originals and late jam sessions. Seating is limited.",
		dayOffset:   3,
		time:        "19:30:00",
		location:    "Fort Kochi",
		address:     "Kunnumpuram Junction, Fort Kochi, Kerala 682001",
		price:       499,
		category:    "music",
		featured:    true,
	},
	{
		key:         "kochi-devfest",
		title:       "Kochi DevFest",
		short:       "A community conference on web, cloud and AI.",
		description: "Talks, codelabs and a hallway track for developers across Kerala, organised by the local developer community.",
		dayOffset:   5,
		time:        "09:00:00",
		location:    "Infopark, Kakkanad",
		address:     "Infopark Phase 1, Kakkanad, Kochi, Kerala 682042",
		price:       0,
		category:    "technology",
		featured:    true,
	},
	{
		key:         "malabar-food-walk",
		title:       "Malabar Food Walk",
		description: "A guided evening walk through Mattancherry's spice markets and tea shops, tasting Malabar biryani, pathiri and sulaimani along the way. The walk ends at a rooftop with views over the harbour, where the guide shares the history of the spice trade that shaped the city.",
		dayOffset:   6,
		time:        "17:00:00",
		location:    "Mattancherry",
		address:     "Jew Town Road, Mattancherry, Kochi, Kerala 682002",
		price:       750,
		category:    "food-drink",
	},
	{
		key:         "biennale-gallery-tour",
		title:       "Biennale Gallery Tour",
		short:       "Curated walkthrough of contemporary installations.",
		description: "Art historians lead a two-hour walkthrough of the contemporary installations at Aspinwall House.",
		dayOffset:   10,
		time:        "11:00:00",
		location:    "Aspinwall House",
		address:     "Calvetty Road, Fort Kochi, Kerala 682001",
		price:       200,
		category:    "arts-culture",
	},
	{
		key:         "marine-drive-run",
		title:       "Marine Drive 10K",
		short:       "Sunrise run along the Marine Drive walkway.",
		description: "Timed 10K and a 3K fun run along Marine Drive, with hydration stations and finisher medals.",
		dayOffset:   12,
		time:        "06:00:00",
		location:    "Marine Drive",
		address:     "Marine Drive, Ernakulam, Kochi, Kerala 682031",
		price:       0,
		category:    "sports-fitness",
	},
	{
		key:         "backwater-music-festival",
		title:       "Backwater Music Festival",
		short:       "Two days of indie and folk music on the water.",
		description: "Indie, folk and fusion acts from across South India perform on floating stages at Bolgatty.",
		dayOffset:   18,
		time:        "16:00:00",
		location:    "Bolgatty Island",
		address:     "Bolgatty Palace, Mulavukad, Kochi, Kerala 682504",
		price:       1200,
		category:    "music",
		featured:    true,
	},
	{
		key:         "pottery-workshop",
		title:       "Weekend Pottery Workshop",
		short:       "Hands-on wheel throwing for beginners.",
		description: "Learn centering, throwing and trimming in a small-group class. All materials included.",
		dayOffset:   4,
		time:        "10:00:00",
		location:    "Panampilly Nagar",
		address:     "Panampilly Nagar, Kochi, Kerala 682036",
		price:       1500,
		category:    "workshops",
	},
	{
		key:         "open-mic-evening",
		title:       "Open Mic Evening",
		short:       "Poetry, stand-up and acoustic sets.",
		description: "Sign up at the door for a five-minute slot. Everyone welcome.",
		dayOffset:   2,
		time:        "18:30:00",
		location:    "Kadavanthra",
		price:       0,
	},
}

// DemoCategories returns the demo category set.
func DemoCategories() []Category {
	out := make([]Category, 0, len(demoCategories))
	for _, c := range demoCategories {
		c.ID = DemoID("category:" + c.Slug)
		out = append(out, c)
	}
	return out
}

// DemoEvents returns a catalog of Kochi events dated relative to from.
func DemoEvents(from time.Time) []Event {
	names := make(map[string]Category, len(demoCategories))
	for _, c := range DemoCategories() {
		names[c.Slug] = c
	}

	out := make([]Event, 0, len(demoEvents))
	for _, d := range demoEvents {
		e := Event{
			ID:               DemoID("event:" + d.key),
			Title:            d.title,
			Description:      d.description,
			ShortDescription: d.short,
			Date:             from.AddDate(0, 0, d.dayOffset).Format(time.DateOnly),
			Time:             d.time,
			Location:         d.location,
			Address:          d.address,
			Price:            d.price,
			Featured:         d.featured,
		}
		if c, ok := names[d.category]; ok {
			e.CategoryID = c.ID
			e.CategoryName = c.Name
			e.CategorySlug = c.Slug
		}
		out = append(out, e)
	}

	SortEvents(out)
	return out
}
