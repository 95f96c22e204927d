package dto

import "time"

// StatsQuery captures the date range for fatigue endpoints.
type StatsQuery struct {
	From time.Time
	To   time.Time
}

// FatigueDay carries the fatigue index for one calendar day.
type FatigueDay struct {
	Date         string  `json:"date"`
	FatigueIndex float64 `json:"fatigueIndex"`
}

// DailyFatigueResponse is the /stats/fatigue payload.
type DailyFatigueResponse struct {
	Daily []FatigueDay `json:"daily"`
}

// FatigueSummaryResponse aggregates workload and fatigue over a period.
type FatigueSummaryResponse struct {
	TotalHours     float64 `json:"totalHours"`
	Days           int     `json:"days"`
	AvgHoursPerDay float64 `json:"avgHoursPerDay"`
	AvgFatigue     float64 `json:"avgFatigue"`
	MinFatigue     float64 `json:"minFatigue"`
	MaxFatigue     float64 `json:"maxFatigue"`
}
