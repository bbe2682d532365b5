package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rfp-quote/internal/catalog"
	"github.com/sells-group/rfp-quote/internal/config"
	"github.com/sells-group/rfp-quote/pkg/anthropic"
)

// --- Anthropic Mock ---

type mockAIClient struct {
	mock.Mock
}

func (m *mockAIClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// textResponse wraps a reply body in a single text content block.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

// failingAI returns a mock whose every call fails, forcing fallbacks.
func failingAI(t *testing.T) *mockAIClient {
	t.Helper()
	m := new(mockAIClient)
	m.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, anthropic.ErrNoAPIKey)
	return m
}

func testAICfg() config.AnthropicConfig {
	return config.AnthropicConfig{
		Model:       "claude-haiku-4-5-20251001",
		MaxTokens:   1024,
		TimeoutSecs: 5,
	}
}

func testPricingCfg() config.PricingConfig {
	return config.PricingConfig{
		DefaultQuantity:      100,
		AlternativeQuantity:  50,
		AlternativeThreshold: 70,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Anthropic: testAICfg(),
		Pricing:   testPricingCfg(),
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

// sampleRFP is the canonical fallback-extraction fixture.
const sampleRFP = "RFP Title: Supply of Industrial Power Cables\nDue Date: 2025-03-15\n\nRequirements:\n- Copper conductor\n- XLPE insulation\n- Voltage rating: 11kV\n- Industrial grade\n- IS compliant"
