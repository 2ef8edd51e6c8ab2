package handler

import (
	"time"

	"github.com/routecast/routecast/internal/api/models"
	"github.com/routecast/routecast/internal/traffic"
)

// travelConditions holds parsed request enums.
type travelConditions struct {
	dayType traffic.DayType
	weather traffic.Weather
	season  traffic.Season
}

// parseConditions parses the request enums, filling omitted fields from
// the current moment: today's day type, clear weather and the monsoon
// season of today's date.
func parseConditions(dayType, weather, season string, now time.Time) (travelConditions, []models.FieldError) {
	var fieldErrors []models.FieldError
	cond := travelConditions{
		weather: traffic.WeatherClear,
		season:  traffic.SeasonForDate(now),
	}

	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		cond.dayType = traffic.DayTypeWeekend
	} else {
		cond.dayType = traffic.DayTypeWeekday
	}

	if dayType != "" {
		parsed, err := traffic.ParseDayType(dayType)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "dayType", Message: err.Error()})
		} else {
			cond.dayType = parsed
		}
	}
	if weather != "" {
		parsed, err := traffic.ParseWeather(weather)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "weather", Message: err.Error()})
		} else {
			cond.weather = parsed
		}
	}
	if season != "" {
		parsed, err := traffic.ParseSeason(season)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "season", Message: err.Error()})
		} else {
			cond.season = parsed
		}
	}

	return cond, fieldErrors
}
