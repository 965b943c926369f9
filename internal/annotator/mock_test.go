package annotator

import (
	"context"

	"github.com/sells-group/golden-retrieval/pkg/anthropic"
)

// mockAnthropicClient returns a canned response or error from CreateMessage.
type mockAnthropicClient struct {
	response *anthropic.MessageResponse
	err      error
	requests []anthropic.MessageRequest
}

func (m *mockAnthropicClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}
