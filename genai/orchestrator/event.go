package orchestrator

// EventTag names one of the StreamEvent wire tags defined for the run.
type EventTag string

const (
	EventMeta          EventTag = "meta"
	EventStatus        EventTag = "status"
	EventPlan          EventTag = "plan"
	EventToolCallStart EventTag = "tool_call_start"
	EventToolCallEnd   EventTag = "tool_call_end"
	EventVerification  EventTag = "verification"
	EventToken         EventTag = "token"
	EventAnswer        EventTag = "answer"
	EventError         EventTag = "error"
	EventDone          EventTag = "done"
)

// Stage names one of the status payload's stage values.
type Stage string

const (
	StagePlanning     Stage = "planning"
	StagePolicy       Stage = "policy"
	StageToolsRunning Stage = "toolsRunning"
	StageVerifying    Stage = "verifying"
	StageAnswering    Stage = "answering"
)

// Event is the in-process representation of one SSE frame; the HTTP surface
// (out of scope here) is responsible for rendering it as "event: <tag>\ndata:
// <json>\n\n".
type Event struct {
	Tag     EventTag    `json:"tag"`
	Payload interface{} `json:"payload"`
}

// MetaPayload backs the meta event.
type MetaPayload struct {
	ThreadID  string `json:"threadId"`
	MessageID string `json:"messageId"`
}

// StatusPayload backs the status event.
type StatusPayload struct {
	Stage Stage `json:"stage"`
}

// ToolCallStartPayload backs the tool_call_start event.
type ToolCallStartPayload struct {
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args"`
}

// ToolCallEndPayload backs the tool_call_end event.
type ToolCallEndPayload struct {
	Tool       string `json:"tool"`
	Status     string `json:"status"`
	DurationMs int64  `json:"durationMs"`
	RowCount   int    `json:"rowCount,omitempty"`
	Error      string `json:"error,omitempty"`
}

// TokenPayload backs the token event.
type TokenPayload struct {
	Token string `json:"token"`
}

// ErrorPayload backs the error event.
type ErrorPayload struct {
	Message string `json:"message"`
	Stage   Stage  `json:"stage,omitempty"`
}

// DonePayload backs the terminal done event, always empty.
type DonePayload struct{}
