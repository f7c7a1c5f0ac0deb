// Command groundedquery wires every concrete adapter (Bedrock Claude,
// Postgres, Weaviate, SQLite evidence) into a Pipeline Coordinator and runs
// one request end to end, printing each StreamEvent as a line of JSON.
//
// It is a thin assembly harness, not a server: the HTTP/SSE surface that
// would translate these Events into "event: ...\ndata: ...\n\n" frames is
// out of scope here, the same way it is out of scope in the component spec.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	weaviateclient "github.com/weaviate/weaviate-go-client/v5/weaviate"

	"github.com/groundedquery/core/genai/answer"
	"github.com/groundedquery/core/genai/config"
	"github.com/groundedquery/core/genai/evidence"
	"github.com/groundedquery/core/genai/llm/provider/bedrock/claude"
	"github.com/groundedquery/core/genai/llmadapter/bedrock"
	"github.com/groundedquery/core/genai/orchestrator"
	"github.com/groundedquery/core/genai/planner"
	"github.com/groundedquery/core/genai/policy"
	"github.com/groundedquery/core/genai/ragconnector/weaviate"
	"github.com/groundedquery/core/genai/sqlconnector/postgres"
	"github.com/groundedquery/core/genai/telemetry"
	"github.com/groundedquery/core/genai/toolruntime"
)

// Options is the root command, parsed by github.com/jessevdk/go-flags. There
// are no sub-commands here: unlike the teacher's chat/list/run/serve split,
// groundedquery only ever does one thing.
type Options struct {
	Config         string   `short:"f" long:"config" description:"path to the orchestration config (afs URL or local path)" default:"config.yaml"`
	Message        string   `short:"m" long:"message" description:"user message to run through the pipeline" required:"true"`
	Workspace      string   `short:"w" long:"workspace" description:"workspace id the run is scoped to" default:"default"`
	Model          string   `long:"model" description:"Bedrock model id" default:"anthropic.claude-3-5-sonnet-20241022-v2:0"`
	PostgresDSN    string   `long:"postgres-dsn" description:"postgres DSN; sql.query is disabled when empty"`
	WeaviateURL    string   `long:"weaviate-url" description:"weaviate host:port; rag.search is disabled when empty"`
	WeaviateClass  string   `long:"weaviate-class" description:"weaviate class name holding evidence chunks" default:"DocumentChunk"`
	EvidenceDSN    string   `long:"evidence-dsn" description:"SQLite DSN for the append-only evidence store" default:"evidence.db"`
	AllowedSources []string `long:"source" description:"source id the run may read from (repeatable); unrestricted when omitted"`
}

func main() {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "groundedquery:", err)
		os.Exit(2)
	}

	ctx := context.Background()
	if err := run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "groundedquery:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	claudeClient, err := claude.NewClient(ctx, opts.Model, claude.WithAnthropicVersion("bedrock-2023-05-31"))
	if err != nil {
		return fmt.Errorf("building bedrock client: %w", err)
	}
	adapter := &bedrock.Adapter{Client: claudeClient}

	var sqlConn toolruntime.SqlConnector
	if opts.PostgresDSN != "" {
		conn, err := postgres.Open(ctx, opts.PostgresDSN)
		if err != nil {
			return fmt.Errorf("opening postgres connector: %w", err)
		}
		defer conn.Disconnect()
		sqlConn = conn
	}

	var ragConn toolruntime.RagConnector
	if opts.WeaviateURL != "" {
		wc, err := weaviateclient.NewClient(weaviateclient.Config{Host: opts.WeaviateURL, Scheme: "http"})
		if err != nil {
			return fmt.Errorf("building weaviate client: %w", err)
		}
		conn, err := weaviate.New(wc, opts.WeaviateClass)
		if err != nil {
			return fmt.Errorf("building rag connector: %w", err)
		}
		ragConn = conn
	}

	store, err := evidence.Open(opts.EvidenceDSN)
	if err != nil {
		return fmt.Errorf("opening evidence store: %w", err)
	}
	defer store.Close()

	rt := toolruntime.NewRuntime(sqlConn, ragConn)
	rt.DefaultTimeout = time.Duration(cfg.ToolTimeoutMs) * time.Millisecond

	coordinator := &orchestrator.Coordinator{
		Planner: &planner.Planner{
			Adapter:     adapter,
			Temperature: cfg.PlannerTemperature,
			MaxRetries:  cfg.PlannerMaxRetries,
		},
		Policy: &policy.Engine{
			ToolGate: &policy.ToolGate{
				AllowList:           cfg.AllowedTools,
				MaxToolCallsPerPlan: cfg.MaxToolCallsPerPlan,
			},
			SqlGate: cfg.SqlGate(),
		},
		Runtime:      rt,
		Answer:       &answer.Generator{Adapter: adapter},
		Evidence:     evidence.BestEffort{Store: store},
		AllowedTools: cfg.AllowedTools,
		WorkflowName: "groundedquery",
	}

	rc := &orchestrator.RunContext{
		WorkspaceID:    opts.Workspace,
		ThreadID:       uuid.NewString(),
		MessageID:      uuid.NewString(),
		UserMessage:    opts.Message,
		AllowedSources: opts.AllowedSources,
	}

	enc := json.NewEncoder(os.Stdout)
	coordinator.Run(ctx, rc, func(evt orchestrator.Event) {
		telemetry.Infof("cmd", "emitting event tag=%s", evt.Tag)
		if err := enc.Encode(evt); err != nil {
			telemetry.Errorf("cmd", "failed to encode event tag=%s: %v", evt.Tag, err)
		}
	})
	return nil
}
