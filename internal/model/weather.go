package model

// WeatherOptions are the caller options forwarded to the weather provider
type WeatherOptions struct {
	Language string `json:"language,omitempty"`
	Units    string `json:"units,omitempty"`
}

// Map returns the options as the request data recorded in history.
// Empty options are omitted.
func (o WeatherOptions) Map() map[string]string {
	m := make(map[string]string, 2)
	if o.Language != "" {
		m["language"] = o.Language
	}
	if o.Units != "" {
		m["units"] = o.Units
	}
	return m
}

// WeatherSnapshot is a point-in-time result for current weather, as returned
// by the provider. It is never persisted as is; history stores a copy.
type WeatherSnapshot struct {
	City           string            `json:"city"`
	Country        string            `json:"country"`
	Temperature    float64           `json:"temperature"`
	Description    string            `json:"description"`
	Humidity       float64           `json:"humidity"`
	WindSpeed      float64           `json:"wind_speed"`
	RequestOptions map[string]string `json:"request_options,omitempty"`
	RawResponse    map[string]any    `json:"raw_response,omitempty"`
}

// ForecastDay is one day of a forecast
type ForecastDay struct {
	Date          string  `json:"date"`
	MaxTemp       float64 `json:"max_temp"`
	MinTemp       float64 `json:"min_temp"`
	Condition     string  `json:"condition"`
	ConditionIcon string  `json:"condition_icon,omitempty"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	ChanceOfRain  float64 `json:"chance_of_rain"`
}

// CitySearchResult is a city matching a search query
type CitySearchResult struct {
	ID        int64   `json:"id,omitempty"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
