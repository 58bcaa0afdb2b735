package api

// RagRequest is the body for the category-scoped answer endpoints.
type RagRequest struct {
	ClassName string   `json:"class_name"`
	Prompt    string   `json:"prompt"`
	History   []string `json:"history,omitempty"`
}

// MessagesRequest carries a raw conversation transcript. The last entry is
// the live question, everything before it is history in alternating order.
type MessagesRequest struct {
	Messages []string `json:"messages"`
}

type RAGResponse struct {
	Response string `json:"response"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
