package services

import "math"

// CostUSD converts token usage into estimated dollars using per-million
// rates applied separately to input and output. Negative counts are
// clamped to zero and the result is rounded to 8 decimal places.
func CostUSD(inputTokens, outputTokens int, inputUSDPer1M, outputUSDPer1M float64) float64 {
	if inputTokens < 0 {
		inputTokens = 0
	}
	if outputTokens < 0 {
		outputTokens = 0
	}

	usd := float64(inputTokens)/1e6*inputUSDPer1M + float64(outputTokens)/1e6*outputUSDPer1M
	return math.Round(usd*1e8) / 1e8
}
