package rest

// eventRow is one row of the PostgREST events listing with its embedded
// category.
type eventRow struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      *string      `json:"description"`
	ShortDescription *string      `json:"short_description"`
	Date             string       `json:"date"`
	Time             *string      `json:"time"`
	Location         *string      `json:"location"`
	Address          *string      `json:"address"`
	Price            *float64     `json:"price"`
	CategoryID       *string      `json:"category_id"`
	Featured         *bool        `json:"featured"`
	Category         *categoryRef `json:"category"`
}

type categoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// errorBody is the PostgREST error payload.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
