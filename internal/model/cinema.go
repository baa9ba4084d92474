package model

// Cinema is the venue of a show.
type Cinema struct {
	ID       int64  `json:"cinema_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}
