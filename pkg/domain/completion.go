package domain

// Completion is a single request to the text-completion oracle.
type Completion struct {
	// System is the optional instruction message.
	System string

	// Prompt is the user message.
	Prompt string

	Temperature float64
	MaxTokens   int
}
