package claude

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/groundedquery/core/genai/llm"
)

// streamChunk mirrors the subset of Anthropic's Bedrock streaming payload
// this client cares about: content deltas and the final message metadata.
type streamChunk struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	ContentBlock struct {
		Type string `json:"type"`
	} `json:"content_block"`
	Message struct {
		StopReason string `json:"stop_reason"`
		Usage      *Usage `json:"usage"`
	} `json:"message"`
	Usage      *Usage `json:"usage"`
	StopReason string `json:"stop_reason"`
}

// Stream sends a chat request to Claude on Bedrock with response streaming
// enabled and emits one llm.StreamEvent per text delta, followed by a final
// event carrying the fully assembled llm.GenerateResponse.
func (c *Client) Stream(ctx context.Context, request *llm.GenerateRequest) (<-chan llm.StreamEvent, error) {
	if c.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	req, err := c.ToRequest(ctx, request)
	if err != nil {
		return nil, err
	}
	req.AnthropicVersion = c.AnthropicVersion

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	out, err := c.BedrockClient.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     aws.String(c.Model),
		Body:        body,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model stream: %w", err)
	}

	events := make(chan llm.StreamEvent, 16)
	go func() {
		defer close(events)
		defer out.GetStream().Close()

		var text string
		var usage *Usage
		var stopReason string

		for ev := range out.GetStream().Events() {
			chunkEv, ok := ev.(*bedrocktypes.ResponseStreamMemberChunk)
			if !ok {
				continue
			}
			var chunk streamChunk
			if err := json.Unmarshal(chunkEv.Value.Bytes, &chunk); err != nil {
				events <- llm.StreamEvent{Err: fmt.Errorf("failed to unmarshal stream chunk: %w", err)}
				return
			}
			switch chunk.Type {
			case "content_block_delta":
				if chunk.Delta.Text != "" {
					text += chunk.Delta.Text
					events <- llm.StreamEvent{Response: &llm.GenerateResponse{
						Model: c.Model,
						Choices: []llm.Choice{{Message: llm.Message{
							Role:    llm.RoleAssistant,
							Content: chunk.Delta.Text,
						}}},
					}}
				}
			case "message_delta":
				if chunk.Message.StopReason != "" {
					stopReason = chunk.Message.StopReason
				}
				if chunk.Message.Usage != nil {
					usage = chunk.Message.Usage
				}
			case "message_stop":
				if chunk.Usage != nil {
					usage = chunk.Usage
				}
			}
		}
		if err := out.GetStream().Err(); err != nil {
			events <- llm.StreamEvent{Err: err}
			return
		}

		final := &llm.GenerateResponse{
			Model: c.Model,
			Choices: []llm.Choice{{
				Message:      llm.Message{Role: llm.RoleAssistant, Content: text},
				FinishReason: stopReason,
			}},
		}
		if usage != nil {
			final.Usage = &llm.Usage{
				PromptTokens:     usage.InputTokens,
				CompletionTokens: usage.OutputTokens,
				TotalTokens:      usage.InputTokens + usage.OutputTokens,
			}
			if c.UsageListener != nil {
				c.UsageListener.OnUsage(c.Model, final.Usage)
			}
		}
		events <- llm.StreamEvent{Response: final}
	}()

	return events, nil
}
