package llm

import "context"

// Generation is the outcome of a single text generation call
type Generation struct {
	// Text is the concatenated text of the first candidate
	Text string
	// BlockReason is set when the prompt itself was blocked
	BlockReason string
	// FinishReason is the first candidate's finish reason
	FinishReason string
	// Feedback summarizes block and safety diagnostics for logging
	Feedback string
}

// blockingFinishReasons end a candidate without usable output
var blockingFinishReasons = map[string]bool{
	"SAFETY":             true,
	"PROHIBITED_CONTENT": true,
	"BLOCKLIST":          true,
	"SPII":               true,
}

// Blocked reports whether the model refused to produce output
func (g *Generation) Blocked() bool {
	return g.BlockReason != "" || blockingFinishReasons[g.FinishReason]
}

// Generator produces text for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
}
