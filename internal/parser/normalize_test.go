package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudazy/warden-yield-agent/internal/state"
)

func TestNormalizeExplicitQueryWins(t *testing.T) {
	q, err := Normalize("  find me yield  ", []any{
		state.Message{Role: "user", Content: "ignored history"},
	})
	require.NoError(t, err)
	assert.Equal(t, "find me yield", q)
}

func TestNormalizeFallsBackToLastMessage(t *testing.T) {
	history := []any{
		state.Message{Role: "user", Content: "first"},
		state.Message{Role: "assistant", Content: "reply"},
		state.Message{Role: "user", Content: "best apy for 1000 usdc"},
	}
	q, err := Normalize("", history)
	require.NoError(t, err)
	assert.Equal(t, "best apy for 1000 usdc", q)
}

func TestNormalizeMessagePointer(t *testing.T) {
	q, err := Normalize("", []any{&state.Message{Role: "user", Content: "from pointer"}})
	require.NoError(t, err)
	assert.Equal(t, "from pointer", q)
}

func TestNormalizeMapMessage(t *testing.T) {
	history := []any{
		map[string]any{"role": "user", "content": "map shaped query"},
	}
	q, err := Normalize("", history)
	require.NoError(t, err)
	assert.Equal(t, "map shaped query", q)
}

func TestNormalizeListOfParts(t *testing.T) {
	history := []any{
		state.Message{Role: "user", Content: []any{
			"safe yield",
			map[string]any{"type": "text", "text": "on arbitrum"},
			map[string]any{"type": "image", "url": "https://example.com/x.png"},
			42,
		}},
	}
	q, err := Normalize("", history)
	require.NoError(t, err)
	assert.Equal(t, "safe yield on arbitrum", q)
}

func TestNormalizeEmptyEverywhere(t *testing.T) {
	_, err := Normalize("", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Normalize("   \t\n", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Normalize("", []any{state.Message{Role: "user", Content: "   "}})
	assert.ErrorIs(t, err, ErrEmptyInput)

	// last entry has no extractable text even though earlier ones do
	_, err = Normalize("", []any{
		state.Message{Role: "user", Content: "real text"},
		state.Message{Role: "user", Content: []any{map[string]any{"type": "image"}}},
	})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestNormalizeUnknownEntryShape(t *testing.T) {
	_, err := Normalize("", []any{12345})
	assert.ErrorIs(t, err, ErrEmptyInput)
}
