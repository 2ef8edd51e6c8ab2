package models

// PredictionRequest is the body of POST /v1/predictions:compute.
type PredictionRequest struct {
	RouteName string `json:"routeName"`
	DayType   string `json:"dayType"`
	Hour      int    `json:"hour"`
	Weather   string `json:"weather"`
	Season    string `json:"season"`
}

// Prediction is a single route travel-time estimate.
type Prediction struct {
	RouteName        string   `json:"routeName"`
	PredictedMinutes int      `json:"predictedMinutes"`
	Confidence       float64  `json:"confidence"`
	Factors          []string `json:"factors"`
	SampleSize       int      `json:"sampleSize"`
	Tier             string   `json:"tier"`
}

// CompareRequest is the body of POST /v1/routes:compare.
type CompareRequest struct {
	DayType string `json:"dayType"`
	Hour    int    `json:"hour"`
	Weather string `json:"weather"`
	Season  string `json:"season"`
}

// Conditions echoes the travel conditions a comparison was computed under.
type Conditions struct {
	DayType string `json:"dayType"`
	Hour    int    `json:"hour"`
	Weather string `json:"weather"`
	Season  string `json:"season"`
}

// Comparison ranks all routes under one set of conditions.
type Comparison struct {
	Conditions      Conditions   `json:"conditions"`
	BestRoute       string       `json:"bestRoute"`
	Predictions     []Prediction `json:"predictions"`
	Recommendations []string     `json:"recommendations"`
}

// OptimizeRequest is the body of POST /v1/departures:optimize.
type OptimizeRequest struct {
	RouteName         string `json:"routeName"`
	TargetArrivalHour int    `json:"targetArrivalHour"`
	DayType           string `json:"dayType"`
	Weather           string `json:"weather"`
	Season            string `json:"season"`
	WindowMinutes     int    `json:"windowMinutes"`
}

// DepartureCandidate is one evaluated departure slot.
type DepartureCandidate struct {
	DepartureTime string  `json:"departureTime"`
	ArrivalTime   string  `json:"arrivalTime"`
	TravelMinutes int     `json:"travelMinutes"`
	BufferMinutes int     `json:"bufferMinutes"`
	Confidence    float64 `json:"confidence"`
}

// OptimizationResult is the departure plan for a target arrival.
type OptimizationResult struct {
	RouteName     string               `json:"routeName"`
	TargetArrival string               `json:"targetArrival"`
	DepartureTime string               `json:"departureTime"`
	ArrivalTime   string               `json:"arrivalTime"`
	TravelMinutes int                  `json:"travelMinutes"`
	BufferMinutes int                  `json:"bufferMinutes"`
	Feasible      bool                 `json:"feasible"`
	Alternatives  []DepartureCandidate `json:"alternatives"`
}
