package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/llm"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantName string
		wantText string
	}{
		{
			name:     "json embedded in prose",
			raw:      `Claro! Aqui está: {"profileName":"Refúgio Solar","description":"Seu lar com [Madeira Clara]."} Espero que goste.`,
			wantName: "Refúgio Solar",
			wantText: "Seu lar com [Madeira Clara].",
		},
		{
			name:     "literal newline inside string",
			raw:      "{\"profileName\":\"Minimalismo Afetivo\",\"description\":\"Primeiro.\nSegundo.\"}",
			wantName: "Minimalismo Afetivo",
			wantText: "Primeiro.\nSegundo.",
		},
		{
			name:     "other control characters dropped",
			raw:      "{\"profileName\":\"Casa\tViva\",\"description\":\"Texto\r\n\"}",
			wantName: "CasaViva",
			wantText: "Texto",
		},
		{
			name:     "broken json falls back to field extraction",
			raw:      `{"profileName": "Lar Tropical", "description": "Cores vivas", "extra": }`,
			wantName: "Lar Tropical",
			wantText: "Cores vivas",
		},
		{
			name:     "non-string fields fall back",
			raw:      `{"profileName": 42, "description": "Texto solto"}`,
			wantName: DefaultProfileName,
			wantText: "Texto solto",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.ProfileName)
			assert.Equal(t, tt.wantText, got.Text)
		})
	}
}

func TestParseReply_PlaceholderFallback(t *testing.T) {
	raw := "{" + strings.Repeat("á", 700) + "}"
	got, err := ParseReply(raw)
	require.NoError(t, err)
	assert.Equal(t, DefaultProfileName, got.ProfileName)
	assert.Equal(t, 500, len([]rune(got.Text)))
	assert.True(t, strings.HasPrefix(raw, got.Text))
}

func TestParseReply_NoJSON(t *testing.T) {
	_, err := ParseReply("Desculpe, não consigo ajudar.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, CodeNoJSON, upErr.Code)
}

func TestParseReply_PrettyPrintedUsesExtraction(t *testing.T) {
	raw := "{\n  \"profileName\": \"Essência Urbana\",\n  \"description\": \"Concreto e [Preto Fosco].\"\n}"
	_, tier, err := parseReply(raw)
	require.NoError(t, err)
	assert.Equal(t, TierRegex, tier)

	got, _ := ParseReply(raw)
	assert.Equal(t, "Essência Urbana", got.ProfileName)
	assert.Equal(t, "Concreto e [Preto Fosco].", got.Text)
}

func TestClient_Analyze(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"profileName":"Refúgio Afetivo","description":"Texto."}`),
	})
	c := NewClient(mock, DefaultConfig(), zerolog.Nop())

	got, err := c.Analyze(context.Background(), []string{"Neutros & Naturais", "Dourado & Latão"})
	require.NoError(t, err)
	assert.Equal(t, Analysis{ProfileName: "Refúgio Afetivo", Text: "Texto."}, got)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, systemPrompt, req.System)
	assert.Equal(t, 1000, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Nil(t, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "[Neutros & Naturais, Dourado & Latão]")
}

func TestClient_AnalyzeUpstreamFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Status: 401, Err: errors.New("invalid key")},
	})
	c := NewClient(mock, DefaultConfig(), zerolog.Nop())

	_, err := c.Analyze(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, CodeUpstreamFailed, upErr.Code)
	assert.Equal(t, 401, upErr.Status)
	assert.Equal(t, 1, mock.CallCount(), "analysis must not retry")
}

func TestBuildPrompt(t *testing.T) {
	p, err := BuildPrompt([]string{"a, b", "c"})
	require.NoError(t, err)
	assert.Contains(t, p, "Analise estas escolhas do cliente: [a, b, c].")
	assert.Contains(t, p, `"profileName"`)
	assert.Contains(t, p, "SEM emojis")
}
