package llm

// ErrorResponse is the JSON error envelope returned by planora servers.
type ErrorResponse struct {
	Error string `json:"error"`
}
