package gemini

// RequestData is the JSON document sent to Gemini as the user turn.
type RequestData struct {
	TargetLanguage string   `json:"target_language"`
	Formality      string   `json:"formality,omitempty"`
	HTML           bool     `json:"html,omitempty"`
	Texts          []string `json:"texts"`
}

// ResponseData is the JSON document expected back from Gemini.
type ResponseData struct {
	Translations []string      `json:"translations"`
	Usage        UsageMetadata `json:"-"` // filled from the API response, not the model output
}

// UsageMetadata holds token usage information.
type UsageMetadata struct {
	PromptTokenCount     int
	CandidatesTokenCount int
	TotalTokenCount      int
}

func (u *UsageMetadata) Add(o UsageMetadata) {
	u.PromptTokenCount += o.PromptTokenCount
	u.CandidatesTokenCount += o.CandidatesTokenCount
	u.TotalTokenCount += o.TotalTokenCount
}
