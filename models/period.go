package models

type PeriodStatus string

const (
	PeriodUnavailable PeriodStatus = "unavailable"
	PeriodPartial     PeriodStatus = "partial"
	PeriodAvailable   PeriodStatus = "available"
)

// Period is a named roll-up of the day's slots (morning, noon, afternoon).
type Period struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	StartTime          string       `json:"startTime"`
	EndTime            string       `json:"endTime"`
	AvailableCount     int          `json:"availableCount"`
	TotalCount         int          `json:"totalCount"`
	Available          bool         `json:"available"`
	PartiallyBooked    bool         `json:"partiallyBooked"`
	FullyBooked        bool         `json:"fullyBooked"`
	CanBookWholePeriod bool         `json:"canBookWholePeriod"`
	Status             PeriodStatus `json:"status"`
}
