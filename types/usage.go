package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TokenUsage represents token usage information
type TokenUsage struct {
	Input     int64 `json:"input"`
	Output    int64 `json:"output"`
	Total     int64 `json:"total"`
	CacheRead int64 `json:"cache_read"` // part of Input served from the provider's prompt cache
}

// Add adds two TokenUsage together
func (t TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		Input:     t.Input + other.Input,
		Output:    t.Output + other.Output,
		Total:     t.Total + other.Total,
		CacheRead: t.CacheRead + other.CacheRead,
	}
}

// TokenCost represents cost information
type TokenCost struct {
	InputUSD  string `json:"input_usd"`
	OutputUSD string `json:"output_usd"`
	TotalUSD  string `json:"total_usd"`
}

// Add adds two TokenCost together
func (t TokenCost) Add(other TokenCost) TokenCost {
	return TokenCost{
		InputUSD:  AddDecimals(t.InputUSD, other.InputUSD),
		OutputUSD: AddDecimals(t.OutputUSD, other.OutputUSD),
		TotalUSD:  AddDecimals(t.TotalUSD, other.TotalUSD),
	}
}

// AddDecimals sums decimal strings, skipping empty or invalid ones.
// The result keeps at least two fractional digits.
func AddDecimals(nums ...string) string {
	sum := decimal.Zero
	for _, num := range nums {
		if num == "" {
			continue
		}
		d, err := decimal.NewFromString(num)
		if err != nil {
			continue
		}
		sum = sum.Add(d)
	}
	s := sum.String()
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 >= 2 {
		return s
	}
	return sum.StringFixed(2)
}
