package providers

import (
	"github.com/shopspring/decimal"
	"github.com/whatmeme/whatmeme-webapp/types"
)

var _1M = decimal.NewFromInt(1e6)

// ComputeCost prices a token usage record. ok is false for models without a price entry.
// Cached input tokens are billed at the cache-read rate when the model has one.
func ComputeCost(model string, usage types.TokenUsage) (cost types.TokenCost, ok bool) {
	costDef, ok := GetModelCost(model)
	if !ok {
		return types.TokenCost{}, false
	}

	var inputUSD decimal.Decimal
	if costDef.InputCacheReadUSDPer1M != "" && usage.CacheRead > 0 {
		nonCacheRead := usage.Input - usage.CacheRead
		if nonCacheRead < 0 {
			nonCacheRead = 0
		}
		cacheReadUSD := perMillion(costDef.InputCacheReadUSDPer1M, usage.CacheRead)
		nonCacheReadUSD := perMillion(costDef.InputUSDPer1M, nonCacheRead)
		inputUSD = cacheReadUSD.Add(nonCacheReadUSD)
	} else {
		inputUSD = perMillion(costDef.InputUSDPer1M, usage.Input)
	}
	outputUSD := perMillion(costDef.OutputUSDPer1M, usage.Output)

	return types.TokenCost{
		InputUSD:  inputUSD.String(),
		OutputUSD: outputUSD.String(),
		TotalUSD:  inputUSD.Add(outputUSD).String(),
	}, true
}

func perMillion(usdPer1M string, tokens int64) decimal.Decimal {
	return requireFromString(usdPer1M).Mul(decimal.NewFromInt(tokens)).Div(_1M)
}

func requireFromString(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(s)
}
