// Package model defines the shared domain types: vehicles, lenders, rate
// ranges, and financing offers.
package model

// Vehicle is a single catalog entry, loaded once at startup and immutable
// thereafter.
type Vehicle struct {
	Year        int    `json:"year"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Trim        string `json:"trim"`
	Price       int    `json:"price"`
	BodyType    string `json:"body_type,omitempty"`
	MPGEstimate string `json:"mpg_estimate,omitempty"`
}
