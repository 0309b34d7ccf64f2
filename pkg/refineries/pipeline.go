package refineries

// PipelineType is the commodity carried by a pipeline.
type PipelineType string

// Pipeline types.
const (
	PipelineOil PipelineType = "oil"
	PipelineGas PipelineType = "gas"
)

// PipelineStatus is the state of a pipeline.
type PipelineStatus string

// Pipeline statuses.
const (
	PipelineOperational PipelineStatus = "operational"
	PipelineSuspended   PipelineStatus = "suspended"
	PipelineDestroyed   PipelineStatus = "destroyed"
)

// Valid reports whether s is a known pipeline status.
func (s PipelineStatus) Valid() bool {
	switch s {
	case PipelineOperational, PipelineSuspended, PipelineDestroyed:
		return true
	}
	return false
}

// Pipeline is a major pipeline route. Coordinates are [lat, lng] pairs.
type Pipeline struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Type        PipelineType   `json:"type" yaml:"type"`
	Status      PipelineStatus `json:"status" yaml:"status"`
	Coordinates [][2]float64   `json:"coordinates" yaml:"coordinates"`
}

// FilterPipelines returns the pipelines whose status is in statuses.
// With no statuses every pipeline is returned.
func FilterPipelines(pipelines []Pipeline, statuses ...PipelineStatus) []Pipeline {
	if len(statuses) == 0 {
		return append([]Pipeline(nil), pipelines...)
	}
	keep := make(map[PipelineStatus]bool, len(statuses))
	for _, s := range statuses {
		keep[s] = true
	}
	var out []Pipeline
	for _, p := range pipelines {
		if keep[p.Status] {
			out = append(out, p)
		}
	}
	return out
}
