package orchestrator

// RunContext is created once per request and is read-only for the lifetime
// of the run; the Pipeline Coordinator is its sole owner.
type RunContext struct {
	WorkspaceID    string
	ThreadID       string
	MessageID      string
	UserMessage    string
	AllowedSources []string
}
