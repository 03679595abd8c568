package metadata

// Model is the per-million-token pricing of one completion model.
type Model struct {
	ID               string
	Provider         string
	Label            string
	InputPerMillion  float64
	OutputPerMillion float64
	// ReasoningBilledAsOutput marks models whose hidden reasoning tokens
	// (total minus prompt and completion) are charged at the output rate.
	ReasoningBilledAsOutput bool
}

var Models = []Model{
	{
		ID:                      "gemini-2.5-flash",
		Provider:                "gemini",
		Label:                   "Gemini 2.5 Flash",
		InputPerMillion:         0.30,
		OutputPerMillion:        2.50,
		ReasoningBilledAsOutput: true,
	},
	{
		ID:                      "gemini-2.5-pro",
		Provider:                "gemini",
		Label:                   "Gemini 2.5 Pro",
		InputPerMillion:         1.25,
		OutputPerMillion:        10.00,
		ReasoningBilledAsOutput: true,
	},
	{
		ID:                      "gemini-3-flash-preview",
		Provider:                "gemini",
		Label:                   "Gemini 3 Flash (preview)",
		InputPerMillion:         0.50,
		OutputPerMillion:        3.00,
		ReasoningBilledAsOutput: true,
	},
	{
		ID:               "gpt-4o-mini",
		Provider:         "openai",
		Label:            "GPT-4o mini",
		InputPerMillion:  0.15,
		OutputPerMillion: 0.60,
	},
	{
		ID:               "gpt-4o",
		Provider:         "openai",
		Label:            "GPT-4o",
		InputPerMillion:  2.50,
		OutputPerMillion: 10.00,
	},
}

const (
	DefaultGeminiInputPerMillion  = 2.00
	DefaultGeminiOutputPerMillion = 12.00
	DefaultOpenAIInputPerMillion  = 2.50
	DefaultOpenAIOutputPerMillion = 10.00
)

// ModelIDs lists the priced models of provider.
func ModelIDs(provider string) []string {
	var ids []string
	for _, m := range Models {
		if m.Provider == provider {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Pricing returns the entry for modelID. Unknown models fall back to the
// provider default and report false. Providers without a public price list
// (compat, mock) have no fallback.
func Pricing(provider, modelID string) (Model, bool) {
	for _, m := range Models {
		if m.Provider == provider && m.ID == modelID {
			return m, true
		}
	}
	switch provider {
	case "gemini":
		return Model{
			ID:                      "default",
			Provider:                provider,
			Label:                   "Default Gemini",
			InputPerMillion:         DefaultGeminiInputPerMillion,
			OutputPerMillion:        DefaultGeminiOutputPerMillion,
			ReasoningBilledAsOutput: true,
		}, false
	case "openai":
		return Model{
			ID:               "default",
			Provider:         provider,
			Label:            "Default OpenAI",
			InputPerMillion:  DefaultOpenAIInputPerMillion,
			OutputPerMillion: DefaultOpenAIOutputPerMillion,
		}, false
	default:
		return Model{ID: "unpriced", Provider: provider}, false
	}
}

// EstimateCost returns the approximate USD cost of the given token counts
// and the number of reasoning tokens billed on top of the completion.
func EstimateCost(m Model, promptTokens, completionTokens, totalTokens int) (float64, int) {
	reasoning := 0
	if m.ReasoningBilledAsOutput {
		reasoning = totalTokens - (promptTokens + completionTokens)
		if reasoning < 0 {
			reasoning = 0
		}
	}
	in := float64(promptTokens) / 1_000_000 * m.InputPerMillion
	out := float64(completionTokens+reasoning) / 1_000_000 * m.OutputPerMillion
	return in + out, reasoning
}
