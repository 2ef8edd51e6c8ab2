package models

// Route describes one catalog entry.
type Route struct {
	Name            string  `json:"name"`
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	DistanceKM      float64 `json:"distanceKm"`
	TypicalSpeedKMH float64 `json:"typicalSpeedKmh"`
	RouteType       string  `json:"routeType"`
	FloodProne      bool    `json:"floodProne"`
	NominalMinutes  float64 `json:"nominalMinutes"`
}

// RouteList wraps the route catalog.
type RouteList struct {
	Items []Route `json:"items"`
}

// RouteAnalytics summarizes one route's historical records.
type RouteAnalytics struct {
	RouteName          string  `json:"routeName"`
	AverageMinutes     float64 `json:"averageMinutes"`
	MinMinutes         int     `json:"minMinutes"`
	MaxMinutes         int     `json:"maxMinutes"`
	PeakAverage        float64 `json:"peakAverage"`
	OffPeakAverage     float64 `json:"offPeakAverage"`
	WeekendAverage     float64 `json:"weekendAverage"`
	WetWeatherAverage  float64 `json:"wetWeatherAverage"`
	TotalRecords       int     `json:"totalRecords"`
	VariabilityPercent float64 `json:"variabilityPercent"`
}
