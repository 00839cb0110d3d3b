package simulator

import "math"

// EnvironmentSample is the per-hour environment seen by the scheduler.
type EnvironmentSample struct {
	SolarAvailableKw float64
	AmbientTempC     float64
}

// Environment resolves the solar output and ambient temperature for a
// simulated hour. Historical samples are preferred when present for the
// queried hour, keyed by hour with a fall-back to index position; hours not
// covered by either fall through to the physics models.
type Environment struct {
	facility    FacilityConfig
	solarByHour map[int]float64
	solarSeries []SeriesPoint
	tempByHour  map[int]float64
	tempSeries  []SeriesPoint
}

func NewEnvironment(facility FacilityConfig, solarSeries, temperatureSeries []SeriesPoint) *Environment {
	return &Environment{
		facility:    facility,
		solarByHour: seriesByHour(solarSeries),
		solarSeries: solarSeries,
		tempByHour:  seriesByHour(temperatureSeries),
		tempSeries:  temperatureSeries,
	}
}

func seriesByHour(series []SeriesPoint) map[int]float64 {
	byHour := make(map[int]float64, len(series))
	for _, point := range series {
		byHour[int(point.Hour)] = point.Value
	}
	return byHour
}

func lookupSeries(byHour map[int]float64, series []SeriesPoint, hour int) (float64, bool) {
	if value, ok := byHour[hour]; ok {
		return value, true
	}
	if hour >= 0 && hour < len(series) {
		return series[hour].Value, true
	}
	return 0, false
}

// Sample returns the environment for the given simulated hour.
func (e *Environment) Sample(hour float64) EnvironmentSample {
	hourIndex := int(math.Floor(hour))

	solar, ok := lookupSeries(e.solarByHour, e.solarSeries, hourIndex)
	if !ok {
		solar = SolarPowerKw(
			math.Mod(hour, 24.0),
			e.facility.MaxSolarKw,
			e.facility.LatitudeDeg,
			e.facility.PanelTiltDeg,
			e.facility.DayOfYear,
		)
	}

	temp, ok := lookupSeries(e.tempByHour, e.tempSeries, hourIndex)
	if !ok {
		temp = AmbientTempC(math.Mod(hour, 24.0), e.facility.MinTempC, e.facility.MaxTempC)
	}

	return EnvironmentSample{SolarAvailableKw: solar, AmbientTempC: temp}
}
