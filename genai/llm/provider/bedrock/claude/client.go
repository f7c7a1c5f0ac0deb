package claude

import (
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	basecfg "github.com/groundedquery/core/genai/llm/provider/base"
	"github.com/groundedquery/core/genai/telemetry"
	"github.com/viant/scy/cred/secret"
)

const (
	defaultAnthropicVersion = "bedrock-2023-05-31"

	// component tags every telemetry line this provider emits, matching the
	// component-tag convention used across the orchestration stages.
	component = "llm.bedrock.claude"
)

// Client represents a Claude API client for AWS Bedrock
type Client struct {
	BedrockClient    *bedrockruntime.Client
	MaxTokens        int
	Model            string
	AnthropicVersion string
	Config           *aws.Config
	// UsageListener receives token usage information per invocation
	UsageListener  basecfg.UsageListener
	secrets        *secret.Service
	Region         string
	MaxRetries     int
	CredentialsURL string
	AccountID      string
	Temperature    *float64
}

// NewClient creates a new Claude client for AWS Bedrock. Model accepts either
// a Bedrock model id or a full inference-profile ARN.
func NewClient(ctx context.Context, model string, options ...ClientOption) (*Client, error) {
	client := &Client{
		Model:            model,
		AnthropicVersion: defaultAnthropicVersion,
		MaxRetries:       2,
		secrets:          secret.New(),
	}

	// Apply options
	for _, option := range options {
		option(client)
	}

	if client.CredentialsURL != "" {
		telemetry.Infof(component, "loading AWS credentials from %s", client.CredentialsURL)
		cfg, err := client.loadAwsConfig(ctx)
		if err != nil {
			return nil, err
		}
		client.Config = cfg
	}

	if client.Config == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(client.Region))
		if err != nil {
			return nil, err
		}
		client.Config = &cfg
	}
	telemetry.Infof(component, "invoking model=%s region=%s maxRetries=%d", model, client.Region, client.MaxRetries)
	client.BedrockClient = bedrockruntime.NewFromConfig(*client.Config)
	return client, nil
}
