package models

// CurrentWeather is the corridor weather reading with its commute impact.
type CurrentWeather struct {
	Condition       string            `json:"condition"`
	TemperatureC    float64           `json:"temperatureC"`
	HumidityPercent float64           `json:"humidityPercent"`
	WindSpeedKMH    float64           `json:"windSpeedKmh"`
	Description     string            `json:"description,omitempty"`
	ObservedAt      Timestamp         `json:"observedAt"`
	Simulated       bool              `json:"simulated"`
	Impact          WeatherImpact     `json:"impact"`
	FloodRisk       map[string]string `json:"floodRisk"`
}

// WeatherImpact describes the commute effect of current conditions.
type WeatherImpact struct {
	Severity        string   `json:"severity"`
	ExpectedDelay   int      `json:"expectedDelayMinutes"`
	AffectedRoutes  []string `json:"affectedRoutes,omitempty"`
	Recommendations []string `json:"recommendations"`
}
