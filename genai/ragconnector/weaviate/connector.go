// Package weaviate implements the RagConnector contract over
// github.com/weaviate/weaviate-go-client/v5, issuing a nearText GraphQL
// search scoped to a workspace and an optional set of source ids.
package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/groundedquery/core/genai/toolruntime"
)

const defaultTopK = 10

// Connector searches a single Weaviate class for evidence chunks.
type Connector struct {
	client    *weaviate.Client
	className string
}

// New wraps an already-configured Weaviate client. className names the
// schema class chunks were indexed under (e.g. "DocumentChunk").
func New(client *weaviate.Client, className string) (*Connector, error) {
	if client == nil {
		return nil, fmt.Errorf("weaviate client must not be nil")
	}
	if className == "" {
		return nil, fmt.Errorf("className must not be empty")
	}
	return &Connector{client: client, className: className}, nil
}

// Search runs a nearText query over req.Query, filtered to req.WorkspaceId
// and, when provided, req.SourceIds.
func (c *Connector) Search(ctx context.Context, req toolruntime.RagSearchRequest) (*toolruntime.RagSearchResult, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	operands := []*filters.WhereBuilder{
		filters.Where().WithPath([]string{"workspaceId"}).WithOperator(filters.Equal).WithValueString(req.WorkspaceId),
	}
	if len(req.SourceIds) > 0 {
		sourceOperands := make([]*filters.WhereBuilder, 0, len(req.SourceIds))
		for _, id := range req.SourceIds {
			sourceOperands = append(sourceOperands,
				filters.Where().WithPath([]string{"sourceId"}).WithOperator(filters.Equal).WithValueString(id))
		}
		operands = append(operands, filters.Where().WithOperator(filters.Or).WithOperands(sourceOperands))
	}
	whereFilter := filters.Where().WithOperator(filters.And).WithOperands(operands)

	nearText := c.client.GraphQL().NearTextArgBuilder().WithConcepts([]string{req.Query})

	fields := []graphql.Field{
		{Name: "chunkId"},
		{Name: "documentId"},
		{Name: "content"},
		{Name: "sourceId"},
		{Name: "_additional { certainty }"},
	}

	result, err := c.client.GraphQL().Get().
		WithClassName(c.className).
		WithFields(fields...).
		WithWhere(whereFilter).
		WithNearText(nearText).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate search: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("weaviate search error: %s", result.Errors[0].Message)
	}

	return parseResult(result, c.className)
}
