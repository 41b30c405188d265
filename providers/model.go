package providers

const (
	ModelGPT4o             = "gpt-4o"
	ModelGPT4oMini         = "gpt-4o-mini"
	ModelGPT4_1            = "gpt-4.1"
	ModelGPT4_1_Mini       = "gpt-4.1-mini"
	ModelGPT4_1_Nano       = "gpt-4.1-nano"
	ModelGPTo4Mini         = "o4-mini"
	ModelClaude3_5Haiku    = "claude-3-5-haiku-latest"
	ModelClaude3_7Sonnet   = "claude-3-7-sonnet-latest"
	ModelClaudeSonnet4     = "claude-sonnet-4-0"
	ModelGemini2_0_Flash   = "gemini-2.0-flash"
	ModelGemini2_5_Flash   = "gemini-2.5-flash"
	ModelGemini2_5_Pro     = "gemini-2.5-pro"
	ModelGemini2_5_FlashLt = "gemini-2.5-flash-lite"
)

var AllModels = []string{
	ModelGPT4oMini,
	ModelGPT4o,
	ModelGPT4_1,
	ModelGPT4_1_Mini,
	ModelGPT4_1_Nano,
	ModelGPTo4Mini,
	ModelClaude3_5Haiku,
	ModelClaude3_7Sonnet,
	ModelClaudeSonnet4,
	ModelGemini2_0_Flash,
	ModelGemini2_5_Flash,
	ModelGemini2_5_FlashLt,
	ModelGemini2_5_Pro,
}

type ModelCost struct {
	InputUSDPer1M          string
	InputCacheReadUSDPer1M string
	OutputUSDPer1M         string
}

var claudeSonnetCost = ModelCost{
	InputUSDPer1M:          "3.00",
	InputCacheReadUSDPer1M: "0.30",
	OutputUSDPer1M:         "15.00",
}

// see https://openai.com/api/pricing/, https://www.anthropic.com/pricing, https://ai.google.dev/pricing
var modelCostMapping = map[string]ModelCost{
	ModelGPT4oMini: {
		InputUSDPer1M:          "0.15",
		InputCacheReadUSDPer1M: "0.075",
		OutputUSDPer1M:         "0.6",
	},
	ModelGPT4o: {
		InputUSDPer1M:          "2.5",
		InputCacheReadUSDPer1M: "1.25",
		OutputUSDPer1M:         "10",
	},
	ModelGPT4_1: {
		InputUSDPer1M:          "2",
		InputCacheReadUSDPer1M: "0.50",
		OutputUSDPer1M:         "8",
	},
	ModelGPT4_1_Mini: {
		InputUSDPer1M:          "0.4",
		InputCacheReadUSDPer1M: "0.10",
		OutputUSDPer1M:         "1.6",
	},
	ModelGPT4_1_Nano: {
		InputUSDPer1M:          "0.1",
		InputCacheReadUSDPer1M: "0.025",
		OutputUSDPer1M:         "0.4",
	},
	ModelGPTo4Mini: {
		InputUSDPer1M:          "1.10",
		InputCacheReadUSDPer1M: "0.275",
		OutputUSDPer1M:         "4.40",
	},
	ModelClaude3_5Haiku: {
		InputUSDPer1M:          "0.80",
		InputCacheReadUSDPer1M: "0.08",
		OutputUSDPer1M:         "4.00",
	},
	ModelClaude3_7Sonnet: claudeSonnetCost,
	ModelClaudeSonnet4:   claudeSonnetCost,
	ModelGemini2_0_Flash: {
		InputUSDPer1M:  "0.10",
		OutputUSDPer1M: "0.40",
	},
	ModelGemini2_5_Flash: {
		InputUSDPer1M:          "0.30",
		InputCacheReadUSDPer1M: "0.075",
		OutputUSDPer1M:         "2.50",
	},
	ModelGemini2_5_FlashLt: {
		InputUSDPer1M:  "0.10",
		OutputUSDPer1M: "0.40",
	},
	ModelGemini2_5_Pro: {
		InputUSDPer1M:          "1.25",
		InputCacheReadUSDPer1M: "0.31",
		OutputUSDPer1M:         "10",
	},
}

func GetModelCost(model string) (ModelCost, bool) {
	modelCost, ok := modelCostMapping[model]
	if !ok {
		return ModelCost{}, false
	}
	return modelCost, true
}
