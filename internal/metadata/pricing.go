// Package metadata holds list prices used for cost estimates. Prices are
// USD and may lag the providers' published rates.
package metadata

type GeminiModel struct {
	ID               string
	Label            string
	InputPerMillion  float64
	OutputPerMillion float64
}

var GeminiModels = []GeminiModel{
	{ID: "gemini-2.5-flash", Label: "Gemini 2.5 Flash", InputPerMillion: 0.30, OutputPerMillion: 2.50},
	{ID: "gemini-2.5-flash-lite", Label: "Gemini 2.5 Flash-Lite", InputPerMillion: 0.10, OutputPerMillion: 0.40},
	{ID: "gemini-2.5-pro", Label: "Gemini 2.5 Pro", InputPerMillion: 1.25, OutputPerMillion: 10.00},
}

const (
	DefaultGeminiInputPerMillion  = 1.25
	DefaultGeminiOutputPerMillion = 10.00

	// DeepLProPerMillionChars is the DeepL API Pro usage price.
	DeepLProPerMillionChars = 25.00
	// DeepLFreeCharacterLimit is the monthly allowance of a DeepL API Free key.
	DeepLFreeCharacterLimit = 500_000
)

// GeminiPricing returns the model's prices, or the default tier and false
// for unknown models.
func GeminiPricing(modelID string) (GeminiModel, bool) {
	for _, m := range GeminiModels {
		if m.ID == modelID {
			return m, true
		}
	}
	return GeminiModel{
		ID:               "default",
		Label:            "Default Gemini",
		InputPerMillion:  DefaultGeminiInputPerMillion,
		OutputPerMillion: DefaultGeminiOutputPerMillion,
	}, false
}

// GeminiCost prices a token count. Thinking tokens are billed as output and
// must be included in output.
func GeminiCost(modelID string, prompt, output int64) float64 {
	m, _ := GeminiPricing(modelID)
	return float64(prompt)/1_000_000*m.InputPerMillion + float64(output)/1_000_000*m.OutputPerMillion
}

// DeepLCost prices characters on the Pro plan. Free keys cost nothing.
func DeepLCost(chars int64, free bool) float64 {
	if free || chars <= 0 {
		return 0
	}
	return float64(chars) / 1_000_000 * DeepLProPerMillionChars
}
