package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/groundedquery/core/genai/llm"
	"github.com/groundedquery/core/genai/telemetry"
	authAws "github.com/viant/scy/auth/aws"
)

// Generate sends a chat request to the Claude API on AWS Bedrock and returns the response
func (c *Client) Generate(ctx context.Context, request *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if c.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	// Convert llms.GenerateRequest to Request
	req, err := c.ToRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	// Set the Anthropic version
	req.AnthropicVersion = c.AnthropicVersion

	// Marshal the request to JSON
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Create the Bedrock InvokeModel request
	invokeRequest := &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.Model),
		Body:        data,
		ContentType: aws.String("application/json"),
	}

	// Send the request to Bedrock, retrying transport failures up to
	// MaxRetries times and logging each failed attempt the way the planner's
	// own retry loop does.
	attempts := 1 + max(0, c.MaxRetries)
	var resp *bedrockruntime.InvokeModelOutput
	var invokeErr error
	for attempt := 0; attempt < attempts; attempt++ {
		resp, invokeErr = c.BedrockClient.InvokeModel(ctx, invokeRequest)
		if invokeErr == nil {
			break
		}
		telemetry.Warnf(component, "invoke model=%s attempt %d/%d failed: %v", c.Model, attempt+1, attempts, invokeErr)
	}

	if invokeErr != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model after %d attempt(s): %w", attempts, invokeErr)
	}

	// Unmarshal the response
	var apiResp Response
	if err := json.Unmarshal(resp.Body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// Set the model name in the response
	apiResp.Model = c.Model

	// Convert Response to llms.GenerateResponse
	llmsResp := ToLLMSResponse(&apiResp)
	if llmsResp.Usage != nil {
		telemetry.Infof(component, "model=%s promptTokens=%d completionTokens=%d", c.Model, llmsResp.Usage.PromptTokens, llmsResp.Usage.CompletionTokens)
	}
	if c.UsageListener != nil && llmsResp.Usage != nil && llmsResp.Usage.TotalTokens > 0 {
		c.UsageListener.OnUsage(request.Options.Model, llmsResp.Usage)
	}
	return llmsResp, nil
}

func (c *Client) loadAwsConfig(ctx context.Context) (*aws.Config, error) {
	var awsConfig *aws.Config
	if c.CredentialsURL != "" {
		generic, err := c.secrets.GetCredentials(ctx, c.CredentialsURL)
		if err != nil {
			return nil, err
		}
		if awsConfig, err = authAws.NewConfig(ctx, &generic.Aws); err != nil {
			return nil, err
		}
	}
	if awsConfig == nil {
		var err error
		defaultConfig, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		awsConfig = &defaultConfig
	}
	return awsConfig, nil
}
