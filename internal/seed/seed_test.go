package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/pkg/refineries"
)

func TestRefineries(t *testing.T) {
	list, err := Refineries()
	require.NoError(t, err)
	require.Len(t, list, 28)
	require.NoError(t, refineries.ValidateList(list))

	ryazan, i := refineries.Find(list, "ryazan")
	require.Equal(t, 0, i)
	assert.Equal(t, refineries.StatusDamaged, ryazan.Status)
	assert.Equal(t, "2024-05-01", ryazan.LastIncidentDate)
	assert.Equal(t, "17.1 mln t/y", ryazan.Capacity)
	assert.Equal(t, []string{"https://x.com/Osinttechnical/status/1798511326178025561"}, ryazan.IncidentVideoURLs)

	for _, r := range list {
		assert.True(t, r.Status.Valid(), r.ID)
	}

	// callers get their own copy
	list[0].Name = "changed"
	again := MustRefineries()
	assert.Equal(t, "Ryazan Oil Refinery (Rosneft)", again[0].Name)
}

func TestPipelines(t *testing.T) {
	pipes, err := Pipelines()
	require.NoError(t, err)
	require.Len(t, pipes, 5)

	ids := make([]string, len(pipes))
	for i, p := range pipes {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"druzhba-oil", "brotherhood-gas", "nord-stream-1", "cpc-oil", "baltic-pipeline-system"}, ids)
	assert.Equal(t, refineries.PipelineDestroyed, pipes[2].Status)
	assert.Equal(t, refineries.PipelineGas, pipes[2].Type)
	assert.Equal(t, [2]float64{60.7, 28.5}, pipes[2].Coordinates[0])
	assert.Len(t, pipes[0].Coordinates, 12)
}
