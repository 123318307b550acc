// internal/workers/guidance/synthesize-career-report/models.go
package synthesizecareerreport

type Input struct {
	Token    string `json:"token"`
	Strategy string `json:"strategy"`
	Brief    string `json:"brief"`
}

type Output struct {
	Token    string                 `json:"token"`
	Strategy string                 `json:"strategy"`
	Report   map[string]interface{} `json:"report"`
	Summary  string                 `json:"summary"`
	Attempts int                    `json:"attempts"`
}

type generateRequest struct {
	Prompt         string            `json:"prompt"`
	Model          string            `json:"model,omitempty"`
	MaxTokens      int               `json:"max_tokens"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat string            `json:"response_format"`
	Metadata       map[string]string `json:"metadata"`
}

type generateResponse struct {
	Text string `json:"text"`
}
