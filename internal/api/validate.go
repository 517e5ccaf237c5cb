package api

import (
	"strconv"

	"gpsnav-vrp/internal/vrperr"
)

// coordinateInput mirrors the wire shape of a lat/lon pair with an
// optional name, shared by /vrp/map's depot and customers fields.
type coordinateInput struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name,omitempty"`
}

func (c coordinateInput) validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return vrperr.NewInvalidInput("lat must be in [-90, 90]")
	}
	if c.Lon < -180 || c.Lon > 180 {
		return vrperr.NewInvalidInput("lon must be in [-180, 180]")
	}
	return nil
}

type mapRequest struct {
	GraphID   string             `json:"graph_id"`
	Depot     coordinateInput    `json:"depot"`
	Customers []coordinateInput  `json:"customers"`
}

func (r mapRequest) validate() error {
	if r.GraphID == "" {
		return vrperr.NewInvalidInput("graph_id is required")
	}
	if err := r.Depot.validate(); err != nil {
		return err
	}
	if len(r.Customers) == 0 {
		return vrperr.NewInvalidInput("customers must not be empty")
	}
	for i, c := range r.Customers {
		if err := c.validate(); err != nil {
			return vrperr.NewInvalidInput("customers[" + strconv.Itoa(i) + "]: " + err.Error())
		}
	}
	return nil
}

type constraintsInput struct {
	TimeWindows bool     `json:"time_windows"`
	MaxDistance *float64 `json:"max_distance,omitempty"`
	MaxDuration *float64 `json:"max_duration,omitempty"`
	ServiceTime *float64 `json:"service_time,omitempty"`
}

type generateRequest struct {
	GraphID     string           `json:"graph_id"`
	Vehicles    int              `json:"vehicles"`
	Capacity    float64          `json:"capacity"`
	Constraints constraintsInput `json:"constraints"`
}

func (r generateRequest) validate() error {
	if r.GraphID == "" {
		return vrperr.NewInvalidInput("graph_id is required")
	}
	if r.Vehicles < 1 {
		return vrperr.NewInvalidInput("vehicles must be >= 1")
	}
	if r.Capacity <= 0 {
		return vrperr.NewInvalidInput("capacity must be > 0")
	}
	if r.Constraints.MaxDistance != nil && *r.Constraints.MaxDistance <= 0 {
		return vrperr.NewInvalidInput("max_distance must be > 0 when set")
	}
	if r.Constraints.MaxDuration != nil && *r.Constraints.MaxDuration <= 0 {
		return vrperr.NewInvalidInput("max_duration must be > 0 when set")
	}
	if r.Constraints.ServiceTime != nil && *r.Constraints.ServiceTime < 0 {
		return vrperr.NewInvalidInput("service_time must be >= 0 when set")
	}
	return nil
}

type solveRequest struct {
	VrpID     string `json:"vrp_id"`
	Algorithm string `json:"algorithm"`
}

var validAlgorithms = map[string]bool{
	"greedy":          true,
	"greedy_farthest": true,
	"clarke_wright":   true,
	"multi_start":     true,
}

func (r solveRequest) validate() error {
	if r.VrpID == "" {
		return vrperr.NewInvalidInput("vrp_id is required")
	}
	if !validAlgorithms[r.Algorithm] {
		return vrperr.NewInvalidInput("algorithm must be one of greedy, greedy_farthest, clarke_wright, multi_start")
	}
	return nil
}
