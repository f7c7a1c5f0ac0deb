package llm

// Options carries the generation parameters the Planner and Answer
// Generator attach to a GenerateRequest. The Planner always sets
// Temperature near zero to bias the plan toward determinism; the Answer
// Generator leaves sampling at the provider default.
type Options struct {
	Model string `json:"model" yaml:"model"`

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature, between 0 and 1.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// TopK is the number of tokens to consider for top-k sampling.
	TopK int `json:"top_k" yaml:"top_k"`

	// TopP is the cumulative probability mass for top-p sampling.
	TopP float64 `json:"top_p" yaml:"top_p"`

	// Tools lists the callable tools a provider may invoke via tool_use.
	Tools []Tool `json:"tools,omitempty" yaml:"tools,omitempty"`

	// ToolChoice controls whether/which tool the provider must call.
	ToolChoice ToolChoice `json:"tool_choice,omitempty" yaml:"tool_choice,omitempty"`

	// ResponseMIMEType requests structured output from providers that
	// support it (e.g. "application/json" for Plan/Answer generation).
	ResponseMIMEType string `json:"response_mime_type,omitempty" yaml:"response_mime_type,omitempty"`
}
