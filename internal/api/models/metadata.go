package models

// Enums lists the accepted values for every request enum.
type Enums struct {
	DayTypes []string `json:"dayTypes"`
	Weathers []string `json:"weathers"`
	Seasons  []string `json:"seasons"`
	Tiers    []string `json:"tiers"`
}
