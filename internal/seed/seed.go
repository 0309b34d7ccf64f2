// Package seed provides the built-in refinery and pipeline data compiled
// into the binary.
package seed

import (
	_ "embed"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

var (
	//go:embed refineries.yaml
	refineriesYAML []byte

	//go:embed pipelines.yaml
	pipelinesYAML []byte
)

var (
	loadOnce  sync.Once
	loaded    data
	loadError error
)

type data struct {
	Refineries []refineries.Refinery `yaml:"refineries"`
	Pipelines  []refineries.Pipeline `yaml:"pipelines"`
}

func load() {
	loadOnce.Do(func() {
		var r, p data
		if err := yaml.Unmarshal(refineriesYAML, &r); err != nil {
			loadError = errors.WrapParse("yaml", "refineries.yaml", err)
			return
		}
		if err := yaml.Unmarshal(pipelinesYAML, &p); err != nil {
			loadError = errors.WrapParse("yaml", "pipelines.yaml", err)
			return
		}
		loaded = data{Refineries: r.Refineries, Pipelines: p.Pipelines}
	})
}

// Refineries returns a fresh copy of the built-in refinery list.
func Refineries() ([]refineries.Refinery, error) {
	load()
	if loadError != nil {
		return nil, loadError
	}
	return refineries.CloneAll(loaded.Refineries), nil
}

// Pipelines returns a fresh copy of the major pipelines.
func Pipelines() ([]refineries.Pipeline, error) {
	load()
	if loadError != nil {
		return nil, loadError
	}
	out := make([]refineries.Pipeline, len(loaded.Pipelines))
	for i, p := range loaded.Pipelines {
		p.Coordinates = append([][2]float64(nil), p.Coordinates...)
		out[i] = p
	}
	return out, nil
}

// MustRefineries is Refineries for callers that cannot recover from a broken build.
func MustRefineries() []refineries.Refinery {
	list, err := Refineries()
	if err != nil {
		panic(err)
	}
	return list
}

// MustPipelines is Pipelines for callers that cannot recover from a broken build.
func MustPipelines() []refineries.Pipeline {
	list, err := Pipelines()
	if err != nil {
		panic(err)
	}
	return list
}
