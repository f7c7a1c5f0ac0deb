package weaviate

import (
	"github.com/weaviate/weaviate/entities/models"

	"github.com/groundedquery/core/genai/toolruntime"
)

func parseResult(result *models.GraphQLResponse, className string) (*toolruntime.RagSearchResult, error) {
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return &toolruntime.RagSearchResult{}, nil
	}
	objects, ok := data[className].([]interface{})
	if !ok {
		return &toolruntime.RagSearchResult{}, nil
	}

	chunks := make([]toolruntime.Chunk, 0, len(objects))
	for _, obj := range objects {
		m, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		chunk := toolruntime.Chunk{
			ChunkId:    getString(m, "chunkId"),
			DocumentId: getString(m, "documentId"),
			Content:    getString(m, "content"),
		}
		if additional, ok := m["_additional"].(map[string]interface{}); ok {
			if certainty, ok := additional["certainty"].(float64); ok {
				chunk.Score = certainty
			}
		}
		if sourceId := getString(m, "sourceId"); sourceId != "" {
			chunk.Metadata = map[string]interface{}{"sourceId": sourceId}
		}
		chunks = append(chunks, chunk)
	}
	return &toolruntime.RagSearchResult{Chunks: chunks}, nil
}

func getString(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}
