package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient records calls and returns a canned response.
type stubClient struct {
	calls int
	resp  *MessageResponse
}

func (s *stubClient) CreateMessage(context.Context, MessageRequest) (*MessageResponse, error) {
	s.calls++
	return s.resp, nil
}

func TestNewClient_EmptyKeyDisabled(t *testing.T) {
	c := NewClient("")

	_, err := c.CreateMessage(context.Background(), MessageRequest{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.False(t, Enabled(c))
}

func TestEnabled(t *testing.T) {
	stub := &stubClient{}

	assert.True(t, Enabled(stub))
	assert.False(t, Enabled(nil))

	// Wrapping must not change the enabled state of the inner client.
	assert.True(t, Enabled(NewRateLimitedClient(stub, 1, 1)))
	assert.False(t, Enabled(NewRateLimitedClient(NewClient(""), 1, 1)))
}

func TestRateLimitedClient_Passthrough(t *testing.T) {
	stub := &stubClient{resp: &MessageResponse{ID: "msg-1"}}
	limited := NewRateLimitedClient(stub, 100, 1)

	resp, err := limited.CreateMessage(context.Background(), MessageRequest{})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", resp.ID)
	assert.Equal(t, 1, stub.calls)
}

func TestRateLimitedClient_CancelledContext(t *testing.T) {
	stub := &stubClient{}
	limited := NewRateLimitedClient(stub, 0.001, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// First call consumes the burst token; the second must wait and so
	// observes the cancelled context.
	_, _ = limited.CreateMessage(context.Background(), MessageRequest{})
	_, err := limited.CreateMessage(ctx, MessageRequest{})
	assert.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "hello "},
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: "world"},
	}}
	assert.Equal(t, "hello world", resp.Text())

	assert.Equal(t, "", (&MessageResponse{}).Text())
}

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 500_000}

	cost := usage.EstimateCost("claude-haiku-4-5-20251001")
	assert.InDelta(t, 0.80+2.00, cost, 1e-9)

	assert.Equal(t, 0.0, usage.EstimateCost("some-unknown-model"))
}

func TestEstimateCost_CacheTokens(t *testing.T) {
	usage := TokenUsage{CacheCreationInputTokens: 1_000_000, CacheReadInputTokens: 1_000_000}

	cost := usage.EstimateCost("claude-haiku-4-5-20251001")
	assert.InDelta(t, 0.80*1.25+0.80*0.1, cost, 1e-9)
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	blocks := BuildCachedSystemBlocks("catalog text")

	require.Len(t, blocks, 1)
	assert.Equal(t, "catalog text", blocks[0].Text)
	require.NotNil(t, blocks[0].CacheControl)
	assert.Equal(t, "1h", blocks[0].CacheControl.TTL)
}
