package model

import "time"

// Report agrupa tudo o que os formatadores precisam.
// Os números vêm somente do EstimationOutput e da projeção já calculada.
type Report struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Location    string            `json:"location"`
	Preset      string            `json:"preset,omitempty"`
	Output      EstimationOutput  `json:"output"`
	Projection  *ProjectionSeries `json:"projection,omitempty"`
}
