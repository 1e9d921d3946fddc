package domain

// BusinessHours describes the bookable window of the shop, configured on
// the profile screen and consumed by the public booking flow.
type BusinessHours struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Interval  int    `json:"interval_minutes,omitempty"`
	Days      []int  `json:"days,omitempty"`
}
