package weather

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexivanou/weather-favorites-api/internal/model"
)

type condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type currentPayload struct {
	Location *struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current *struct {
		TempC     float64   `json:"temp_c"`
		Humidity  float64   `json:"humidity"`
		WindKph   float64   `json:"wind_kph"`
		Condition condition `json:"condition"`
	} `json:"current"`
}

type forecastPayload struct {
	Forecast *struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC          float64   `json:"maxtemp_c"`
				MinTempC          float64   `json:"mintemp_c"`
				AvgHumidity       float64   `json:"avghumidity"`
				MaxWindKph        float64   `json:"maxwind_kph"`
				DailyChanceOfRain float64   `json:"daily_chance_of_rain"`
				Condition         condition `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

type searchPayload []struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func parseCurrent(body []byte) (*model.WeatherSnapshot, error) {
	var payload currentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode current weather: %w", err)
	}
	if payload.Location == nil || payload.Current == nil {
		return nil, errors.New("current weather response is missing location or current")
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode current weather: %w", err)
	}

	return &model.WeatherSnapshot{
		City:        payload.Location.Name,
		Country:     payload.Location.Country,
		Temperature: payload.Current.TempC,
		Description: payload.Current.Condition.Text,
		Humidity:    payload.Current.Humidity,
		WindSpeed:   payload.Current.WindKph,
		RawResponse: raw,
	}, nil
}

func parseForecast(body []byte) ([]model.ForecastDay, error) {
	var payload forecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode forecast: %w", err)
	}
	if payload.Forecast == nil {
		return nil, errors.New("forecast response is missing forecast")
	}

	days := make([]model.ForecastDay, 0, len(payload.Forecast.ForecastDay))
	for _, d := range payload.Forecast.ForecastDay {
		days = append(days, model.ForecastDay{
			Date:          d.Date,
			MaxTemp:       d.Day.MaxTempC,
			MinTemp:       d.Day.MinTempC,
			Condition:     d.Day.Condition.Text,
			ConditionIcon: d.Day.Condition.Icon,
			Humidity:      d.Day.AvgHumidity,
			WindSpeed:     d.Day.MaxWindKph,
			ChanceOfRain:  d.Day.DailyChanceOfRain,
		})
	}
	return days, nil
}

func parseSearch(body []byte) ([]model.CitySearchResult, error) {
	var payload searchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	results := make([]model.CitySearchResult, 0, len(payload))
	for _, p := range payload {
		results = append(results, model.CitySearchResult{
			ID:        p.ID,
			Name:      p.Name,
			Region:    p.Region,
			Country:   p.Country,
			Latitude:  p.Lat,
			Longitude: p.Lon,
		})
	}
	return results, nil
}
