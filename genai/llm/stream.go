package llm

import (
	"context"
)

// StreamEvent is one increment of a provider's streaming completion: either
// a partial/final GenerateResponse or a terminal Err. The Bedrock adapter's
// StreamAnswer drains these into llmadapter.AnswerFragments.
type StreamEvent struct {
	Response *GenerateResponse
	Err      error
}

// StreamingModel is implemented by providers that can stream a completion
// incrementally rather than returning only the final GenerateResponse.
type StreamingModel interface {
	Stream(ctx context.Context, request *GenerateRequest) (<-chan StreamEvent, error)
}
