package refineries

import "math"

// Stats summarizes a refinery list.
type Stats struct {
	Total            int `json:"total" yaml:"total"`
	Operational      int `json:"operational" yaml:"operational"`
	Damaged          int `json:"damaged" yaml:"damaged"`
	Offline          int `json:"offline" yaml:"offline"`
	Unknown          int `json:"unknown" yaml:"unknown"`
	ImpactPercentage int `json:"impactPercentage" yaml:"impactPercentage"`
}

// ComputeStats counts refineries by status. ImpactPercentage is the rounded
// share of damaged or offline refineries, 0 for an empty list.
func ComputeStats(list []Refinery) Stats {
	s := Stats{Total: len(list)}
	for _, r := range list {
		switch r.Status {
		case StatusOperational:
			s.Operational++
		case StatusDamaged:
			s.Damaged++
		case StatusOffline:
			s.Offline++
		default:
			s.Unknown++
		}
	}
	if s.Total > 0 {
		s.ImpactPercentage = int(math.Round(float64(s.Offline+s.Damaged) / float64(s.Total) * 100))
	}
	return s
}
