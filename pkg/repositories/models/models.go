package models

// Drive is the stored record of one drive session.
type Drive struct {
	ID               string  `json:"id"`
	StartedAt        int64   `json:"started_at"`
	UpdatedAt        int64   `json:"updated_at"`
	TickIntervalMs   float64 `json:"tick_interval_ms"`
	Ticks            uint64  `json:"ticks"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	R                float64 `json:"r"`
	SpeedMomentum    float64 `json:"speed_momentum"`
	SteeringMomentum float64 `json:"steering_momentum"`
	Finished         bool    `json:"finished"`
}
