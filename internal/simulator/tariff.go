package simulator

import "math"

// Time-of-use band boundaries, hour of day.
const (
	offPeakEndHour = 6.0
	peakStartHour  = 18.0
	peakEndHour    = 22.0
)

// GridRate returns the grid price in currency units per kWh for the given
// simulated hour: cheapest before 06:00, most expensive from 18:00 to
// 22:00 and the standard rate otherwise.
func GridRate(hour float64, tariff TariffConfig) float64 {
	hourOfDay := math.Mod(hour, 24.0)
	switch {
	case hourOfDay < offPeakEndHour:
		return tariff.OffPeakRate
	case hourOfDay >= peakStartHour && hourOfDay < peakEndHour:
		return tariff.PeakRate
	default:
		return tariff.StandardRate
	}
}
