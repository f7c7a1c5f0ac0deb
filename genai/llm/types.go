package llm

import (
	"github.com/google/uuid"
)

// ContentType identifies the kind of asset carried by a ContentItem. The
// Answer Generator and Planner only ever emit ContentTypeText; image support
// exists for provider adapters (e.g. Claude's vision input) that accept
// evidence previews as images.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

// AssetSource describes how a ContentItem's Data is encoded.
type AssetSource string

const (
	SourceURL    AssetSource = "url"
	SourceBase64 AssetSource = "base64"
	SourceRaw    AssetSource = "raw"
)

// ContentItem is one piece of a Message's payload: a run of text, or an
// image to hand to a multimodal provider.
type ContentItem struct {
	Type ContentType `json:"type"`
	// Source indicates how Data is encoded (url, base64, raw text/bytes).
	Source AssetSource `json:"source"`
	// Data holds the URL, base64 payload, or raw text depending on Source.
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	// Text mirrors Data for ContentTypeText items; kept for callers that
	// only care about text and never inspect Source.
	Text string `json:"text,omitempty"`
}

// MessageRole identifies the sender of a Message in a GenerateRequest.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

func (m MessageRole) String() string {
	return string(m)
}

// Message is one turn in the conversation the Planner or Answer Generator
// sends to an LlmAdapter. Content is the plain-text convenience form;
// Items carries structured content (text runs, images) when a provider
// needs more than a single string.
type Message struct {
	Role       MessageRole   `json:"role"`
	Name       string        `json:"name,omitempty"`
	Items      []ContentItem `json:"items,omitempty"`
	ToolCalls  []ToolCall    `json:"tool_calls,omitempty"`
	Content    string        `json:"content,omitempty"`
	ToolCallId string        `json:"tool_call_id,omitempty"`
}

// ToolCall is a structured tool invocation surfaced by a provider response
// (e.g. Claude's tool_use content block), not to be confused with the
// orchestrator's own audit-trail ToolCall in package toolruntime.
type ToolCall struct {
	ID        string                 `json:"id,omitempty"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
	Result    string                 `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// GenerateRequest is the provider-agnostic shape the Planner and Answer
// Generator send to an LlmAdapter.generatePlan/generateAnswer.
type GenerateRequest struct {
	Messages []Message `json:"messages"`
	Options  *Options  `json:"options,omitempty"`
}

// GenerateResponse is the provider-agnostic shape an LlmAdapter returns.
type GenerateResponse struct {
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
	Model   string   `json:"model,omitempty"`
}

// Choice is one candidate completion; the core only ever reads Choices[0].
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Usage reports token accounting for one generation call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	CachedTokens     int `json:"cached_tokens,omitempty"`
}

// NewUserMessage creates a text message with the "user" role.
func NewUserMessage(content string) Message {
	return NewTextMessage(RoleUser, content)
}

// NewSystemMessage creates a text message with the "system" role.
func NewSystemMessage(content string) Message {
	return NewTextMessage(RoleSystem, content)
}

// NewTextMessage creates a text-only message for the given role.
func NewTextMessage(role MessageRole, content string) Message {
	return Message{
		Role:    role,
		Items:   []ContentItem{NewTextContent(content)},
		Content: content,
	}
}

// NewTextContent creates a text content item.
func NewTextContent(text string) ContentItem {
	return ContentItem{Type: ContentTypeText, Source: SourceRaw, Data: text, Text: text}
}

// NewToolCall builds a ToolCall, generating an ID when the caller omits one.
func NewToolCall(id, name string, args map[string]interface{}, result string) ToolCall {
	if id == "" {
		id = uuid.NewString()
	}
	copied := make(map[string]interface{}, len(args))
	for k, v := range args {
		copied[k] = v
	}
	return ToolCall{ID: id, Name: name, Arguments: copied, Result: result}
}
