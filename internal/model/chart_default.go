package model

import "time"

// Period is the time window a chart covers
type Period struct {
	Value string `json:"value,omitempty"`
	Label string `json:"label,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// Default represents a user's saved chart preference
type Default struct {
	ID            string    `json:"id"`
	User          string    `json:"user"`
	ChartTitle    string    `json:"chartTitle"`
	Pollutant     string    `json:"pollutant"`
	Frequency     string    `json:"frequency"`
	StartDate     string    `json:"startDate,omitempty"`
	EndDate       string    `json:"endDate,omitempty"`
	ChartType     string    `json:"chartType,omitempty"`
	ChartSubTitle string    `json:"chartSubTitle,omitempty"`
	Airqloud      string    `json:"airqloud,omitempty"`
	Period        *Period   `json:"period,omitempty"`
	Sites         []string  `json:"sites"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

// Summary returns the projection returned after removal
func (d *Default) Summary() *DefaultSummary {
	return &DefaultSummary{ID: d.ID, User: d.User, ChartTitle: d.ChartTitle}
}

// DefaultSummary is the safe projection of a default
type DefaultSummary struct {
	ID         string `json:"id"`
	User       string `json:"user"`
	ChartTitle string `json:"chartTitle"`
}

// Chart frequencies
const (
	FrequencyHourly  = "hourly"
	FrequencyDaily   = "daily"
	FrequencyMonthly = "monthly"
)

// Pollutants
const (
	PollutantPM25 = "pm2_5"
	PollutantPM10 = "pm10"
	PollutantNO2  = "no2"
)

// CreateDefaultRequest represents a request to save a chart default
type CreateDefaultRequest struct {
	User          string   `json:"user"`
	ChartTitle    string   `json:"chartTitle"`
	Pollutant     string   `json:"pollutant"`
	Frequency     string   `json:"frequency"`
	StartDate     string   `json:"startDate,omitempty"`
	EndDate       string   `json:"endDate,omitempty"`
	ChartType     string   `json:"chartType,omitempty"`
	ChartSubTitle string   `json:"chartSubTitle,omitempty"`
	Airqloud      string   `json:"airqloud,omitempty"`
	Period        *Period  `json:"period,omitempty"`
	Sites         []string `json:"sites,omitempty"`
}

// Validate validates the create default request
func (r *CreateDefaultRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, required("user", r.User)...)
	errs = append(errs, required("chartTitle", r.ChartTitle)...)
	errs = append(errs, required("pollutant", r.Pollutant)...)
	errs = append(errs, oneOf("pollutant", r.Pollutant, PollutantPM25, PollutantPM10, PollutantNO2)...)
	errs = append(errs, required("frequency", r.Frequency)...)
	errs = append(errs, oneOf("frequency", r.Frequency, FrequencyHourly, FrequencyDaily, FrequencyMonthly)...)
	return errs
}

// UpdateDefaultRequest represents a partial update of a chart default
type UpdateDefaultRequest struct {
	ChartTitle    *string  `json:"chartTitle,omitempty"`
	Pollutant     *string  `json:"pollutant,omitempty"`
	Frequency     *string  `json:"frequency,omitempty"`
	StartDate     *string  `json:"startDate,omitempty"`
	EndDate       *string  `json:"endDate,omitempty"`
	ChartType     *string  `json:"chartType,omitempty"`
	ChartSubTitle *string  `json:"chartSubTitle,omitempty"`
	Airqloud      *string  `json:"airqloud,omitempty"`
	Period        *Period  `json:"period,omitempty"`
	Sites         []string `json:"sites,omitempty"`
}

// Validate validates the update default request
func (r *UpdateDefaultRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Pollutant != nil {
		errs = append(errs, oneOf("pollutant", *r.Pollutant, PollutantPM25, PollutantPM10, PollutantNO2)...)
	}
	if r.Frequency != nil {
		errs = append(errs, oneOf("frequency", *r.Frequency, FrequencyHourly, FrequencyDaily, FrequencyMonthly)...)
	}
	return errs
}

// Update translates the request into field assignments
func (r *UpdateDefaultRequest) Update() Update {
	s := setter{}
	s.str("chartTitle", r.ChartTitle)
	s.str("pollutant", r.Pollutant)
	s.str("frequency", r.Frequency)
	s.str("startDate", r.StartDate)
	s.str("endDate", r.EndDate)
	s.str("chartType", r.ChartType)
	s.str("chartSubTitle", r.ChartSubTitle)
	s.str("airqloud", r.Airqloud)
	if r.Period != nil {
		s["period"] = *r.Period
	}
	s.list("sites", r.Sites)
	return Update{Set: s}
}
