package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-scoring-service/internal/core/domain"
	ports "model-scoring-service/internal/core/ports/output"
)

func TestScanConditions(t *testing.T) {
	tests := []struct {
		name      string
		filter    ports.ArtifactFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{name: "no filter", filter: ports.ArtifactFilter{}, wantWhere: "1=1", wantArgs: []interface{}{}},
		{name: "wildcard", filter: ports.ArtifactFilter{Name: "*"}, wantWhere: "1=1", wantArgs: []interface{}{}},
		{
			name:      "type and name",
			filter:    ports.ArtifactFilter{Type: domain.ArtifactTypeModel, Name: "Bert_Base"},
			wantWhere: "type = $1 AND lower(name) LIKE $2",
			wantArgs:  []interface{}{"model", `%bert\_base%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := scanConditions(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestMarshalRating(t *testing.T) {
	data, err := marshalRating(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = marshalRating(&domain.ScoreRecord{Name: "bert", NetScore: 0.5})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"net_score":0.5`)
}
