package models

// RateOption is a single selectable courier service returned by the
// rate gateway. Etd keeps the raw courier string ("2-3" or "2"); the
// parsed day bounds live in EtdMinDays/EtdMaxDays.
type RateOption struct {
	Courier     string `json:"courier"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	Etd         string `json:"etd"`
	EtdMinDays  int    `json:"etd_min_days"`
	EtdMaxDays  int    `json:"etd_max_days"`
}

// QuoteRequest asks for rate options to a destination city for the
// caller's current cart weight.
type QuoteRequest struct {
	DestinationCityID string `json:"destination_city_id" binding:"required"`
	Courier           string `json:"courier" binding:"required"`
}
