package quota

// Token estimation is a heuristic, not tokenizer-exact accounting. The
// LLM averages roughly four characters per token for English text; the
// pre-flight estimate deliberately overestimates (fixed buffer for the
// system prompt and expected response) to bias toward under-admission.

// EstimateTokens estimates the token cost of a piece of text as
// ceil(length / charsPerToken), where length counts UTF-16 code units to
// match what clients report for the same text.
func (l *Limiter) EstimateTokens(text string) int64 {
	return ceilDiv(utf16Length(text), l.cfg.CharsPerToken)
}

// EstimateRequest estimates the full pre-flight cost of a chat request
// from its latest user-authored text: the text estimate plus the fixed
// prompt/response buffer.
func (l *Limiter) EstimateRequest(text string) int64 {
	return l.EstimateTokens(text) + l.cfg.EstimateBuffer
}

// DeductionCost computes the post-hoc cost to deduct once a request has
// completed: the input estimate plus streamed output bytes mapped through
// the same chars-per-token divisor. Streamed byte count is a stand-in for
// true tokenizer output and will drift from real billing.
func (l *Limiter) DeductionCost(estimatedInputTokens, streamedByteCount int64) int64 {
	return estimatedInputTokens + ceilDiv(streamedByteCount, l.cfg.CharsPerToken)
}

// utf16Length returns the number of UTF-16 code units in s, matching the
// JavaScript String.length the wire contract was designed against.
func utf16Length(s string) int64 {
	var n int64
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func ceilDiv(n, d int64) int64 {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
