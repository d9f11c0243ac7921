package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-scoring-service/internal/core/domain"
	"model-scoring-service/internal/testutil"
)

func TestPerformanceClaims(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		expected float64
		wantErr  error
	}{
		{name: "plain float", reply: "0.76\n", expected: 0.76},
		{name: "clamped", reply: "1.2", expected: 1},
		{name: "unparsable", reply: "about 0.5", expected: 0, wantErr: domain.ErrParseFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := new(testutil.MockModelHub)
			hub.On("ModelCard", mock.Anything, "acme/m").Return("## Evaluation\n\nGLUE 80.5", nil)
			llm := new(testutil.MockLLMClient)
			llm.On("Complete", mock.Anything, mock.Anything).Return(tt.reply, nil)

			v, err := NewPerformanceClaims(hub, llm).Compute(context.Background(), domain.NewModel("https://huggingface.co/acme/m", ""))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.InDelta(t, tt.expected, v.Score, 1e-9)
		})
	}
}

func TestPerformanceClaims_NoCard(t *testing.T) {
	hub := new(testutil.MockModelHub)
	hub.On("ModelCard", mock.Anything, mock.Anything).Return("", domain.ErrUnavailable)

	v, err := NewPerformanceClaims(hub, new(testutil.MockLLMClient)).Compute(context.Background(), domain.NewModel("https://huggingface.co/acme/m", ""))

	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Zero(t, v.Score)
}
