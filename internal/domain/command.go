package domain

// CommandResult is the outcome of translating a free-text command.
// An empty Method is a clarification outcome: Parameters is nil (encoded as null)
// and Message explains what is missing. Otherwise Message describes the call about to run.
type CommandResult struct {
	Method     string                 `json:"method,omitempty"`
	Parameters map[string]interface{} `json:"parameters"`
	Message    string                 `json:"message"`
}

// HasMethod reports whether the command resolved to an API call
func (r CommandResult) HasMethod() bool {
	return r.Method != ""
}

// CommandRequest is the body of the command endpoints
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// APIResponse is a decoded BaseLinker response envelope.
// Payload keeps the full body, including method-specific keys.
type APIResponse struct {
	Status       string                 `json:"status"`
	ErrorCode    string                 `json:"error_code,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Payload      map[string]interface{} `json:"payload"`
}

// CommandExecution pairs a translated command with the API response it produced
type CommandExecution struct {
	Result   CommandResult `json:"result"`
	Response *APIResponse  `json:"response,omitempty"`
}
