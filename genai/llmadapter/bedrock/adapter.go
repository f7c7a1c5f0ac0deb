// Package bedrock adapts genai/llm/provider/bedrock/claude.Client into the
// llmadapter.Adapter contract the Planner and Answer Generator depend on.
// It is the only place that knows Plans and Answers are exchanged with the
// model as JSON text inside an ordinary chat message.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/groundedquery/core/genai/llm"
	"github.com/groundedquery/core/genai/llm/provider/bedrock/claude"
	"github.com/groundedquery/core/genai/llmadapter"
	"github.com/groundedquery/core/genai/plan"
)

const (
	planSystemPrompt = `You are a query planner. Respond with a single JSON object matching this shape and nothing else:
{"intent": string, "actions": [{"tool": string, "args": object, "reason": string}], "needsClarification": bool, "clarificationQuestion": string}
Only use tools from the allowed list. Prefer needsClarification when the request is ambiguous.`

	answerSystemPrompt = `You are an answer generator. You may only state facts present in the supplied tool results.
Cite every factual statement with a bracketed index, e.g. [1], matching a citation in your response.
Respond with a single JSON object: {"content": string, "citations": [{"index": int, "evidenceId": string, "evidenceType": string, "label": string}], "followUps": [string]}.
If no tool results are supplied, content must state that no data is available and citations must be empty.`
)

// Adapter wraps a Bedrock Claude client.
type Adapter struct {
	Client *claude.Client
}

// GeneratePlan asks the model for a Plan and validates the resulting JSON.
func (a *Adapter) GeneratePlan(ctx context.Context, req llmadapter.PlanRequest) (*plan.Plan, error) {
	prompt := planSystemPrompt
	if len(req.AllowedTools) > 0 {
		prompt += "\nAllowed tools: " + strings.Join(req.AllowedTools, ", ")
	}
	if req.SystemContext != "" {
		prompt += "\n" + req.SystemContext
	}

	resp, err := a.Client.Generate(ctx, &llm.GenerateRequest{
		Messages: []llm.Message{
			llm.NewSystemMessage(prompt),
			llm.NewUserMessage(req.UserMessage),
		},
		Options: &llm.Options{Temperature: req.Temperature, ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock generatePlan: %w", err)
	}

	content, err := firstChoiceText(resp)
	if err != nil {
		return nil, err
	}
	return plan.ValidatePlan([]byte(content))
}

// GenerateAnswer asks the model for an Answer grounded only in the supplied
// tool results and verifier report.
func (a *Adapter) GenerateAnswer(ctx context.Context, req llmadapter.AnswerRequest) (*llmadapter.RawAnswer, error) {
	evidence, err := json.Marshal(struct {
		ToolResults    interface{} `json:"toolResults"`
		VerifierReport interface{} `json:"verifierReport"`
	}{req.ToolResults, req.VerifierReport})
	if err != nil {
		return nil, fmt.Errorf("marshaling evidence: %w", err)
	}

	prompt := answerSystemPrompt
	if req.SystemContext != "" {
		prompt += "\n" + req.SystemContext
	}

	resp, err := a.Client.Generate(ctx, &llm.GenerateRequest{
		Messages: []llm.Message{
			llm.NewSystemMessage(prompt),
			llm.NewUserMessage(req.UserMessage),
			llm.NewUserMessage("Evidence: " + string(evidence)),
		},
		Options: &llm.Options{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock generateAnswer: %w", err)
	}

	content, err := firstChoiceText(resp)
	if err != nil {
		return nil, err
	}

	var raw llmadapter.RawAnswer
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decoding answer: %w", err)
	}
	return &raw, nil
}

// StreamAnswer streams text fragments from the model; the Answer Generator
// assembles them and calls GenerateAnswer (or an equivalent) for the final
// validated Answer.
func (a *Adapter) StreamAnswer(ctx context.Context, req llmadapter.AnswerRequest) (<-chan llmadapter.AnswerFragment, error) {
	evidence, err := json.Marshal(struct {
		ToolResults    interface{} `json:"toolResults"`
		VerifierReport interface{} `json:"verifierReport"`
	}{req.ToolResults, req.VerifierReport})
	if err != nil {
		return nil, fmt.Errorf("marshaling evidence: %w", err)
	}

	prompt := answerSystemPrompt
	if req.SystemContext != "" {
		prompt += "\n" + req.SystemContext
	}

	events, err := a.Client.Stream(ctx, &llm.GenerateRequest{
		Messages: []llm.Message{
			llm.NewSystemMessage(prompt),
			llm.NewUserMessage(req.UserMessage),
			llm.NewUserMessage("Evidence: " + string(evidence)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock streamAnswer: %w", err)
	}

	out := make(chan llmadapter.AnswerFragment)
	go func() {
		defer close(out)
		for ev := range events {
			if ev.Err != nil {
				return
			}
			text, err := firstChoiceText(ev.Response)
			if err != nil || text == "" {
				continue
			}
			out <- llmadapter.AnswerFragment{Text: text}
		}
		out <- llmadapter.AnswerFragment{Done: true}
	}()
	return out, nil
}

func firstChoiceText(resp *llm.GenerateResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	msg := resp.Choices[0].Message
	if msg.Content != "" {
		return msg.Content, nil
	}
	for _, item := range msg.Items {
		if item.Text != "" {
			return item.Text, nil
		}
	}
	return "", fmt.Errorf("model response has no text content")
}
