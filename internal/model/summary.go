package model

// AggregateSummary is derived from a canonical transaction set; it is never
// stored.
type AggregateSummary struct {
	WrapTotal   string `json:"wrap_total"`
	UnwrapTotal string `json:"unwrap_total"`
	NetWrapped  string `json:"net_wrapped"`
	WrapCount   int    `json:"wrap_count"`
	UnwrapCount int    `json:"unwrap_count"`
}
