package simulator

import "math"

// Empirical constants for the clear-sky irradiance model.
const (
	// Extraterrestrial solar flux, W/m².
	solarConstant = 1353.0
	// Meinel beam-attenuation constants.
	atmosphericExtinction = 0.7
	airMassExponent       = 0.678
	// Isotropic sky model factors.
	diffuseFraction = 0.1
	groundAlbedo    = 0.2
	// Reference irradiance under standard test conditions, W/m².
	stcIrradiance = 1000.0
	// Overall DC-to-AC performance ratio of the array.
	systemEfficiency = 0.85
)

// Cooling system constants.
const (
	// Electrical cooling demand per degree of excess facility temperature,
	// before COP conversion.
	coolingKwPerDegC = 0.5
	// Fraction of the compute load that reappears as heat the cooling
	// system must remove.
	coolingLoadFactor = 0.1
	// Coefficient of performance converting thermal load to electrical draw.
	coolingCOP = 3.0
)

// Thermal accumulation constants, per simulated hour.
const (
	// Rate at which the facility temperature relaxes towards ambient.
	thermalCouplingPerHour = 0.25
	// Facility heating per kW of compute load.
	heatGainCPerKwHour = 0.08
	// Facility cooling per kW of cooling-system electrical draw.
	coolingReliefCPerKwHour = 0.30
)

// CalculateIrradiance returns the clear-sky plane-of-array irradiance in
// W/m² for the given day of year, hour of day, site latitude and panel
// tilt. It is exactly zero whenever the sun is below the horizon.
func CalculateIrradiance(dayOfYear int, hour, latitudeDeg, tiltDeg float64) float64 {
	declinationRad := degToRad(23.45 * math.Sin(degToRad(360.0/365.0*float64(284+dayOfYear))))
	hourAngleRad := degToRad(15.0 * (hour - 12.0))
	latitudeRad := degToRad(latitudeDeg)

	sinAltitude := math.Sin(latitudeRad)*math.Sin(declinationRad) +
		math.Cos(latitudeRad)*math.Cos(declinationRad)*math.Cos(hourAngleRad)
	if sinAltitude <= 0 {
		return 0
	}

	airMass := 1.0 / sinAltitude
	beamNormal := solarConstant * math.Pow(atmosphericExtinction, math.Pow(airMass, airMassExponent))

	altitudeRad := math.Asin(sinAltitude)
	tiltRad := degToRad(tiltDeg)
	beam := beamNormal * math.Sin(altitudeRad+tiltRad)
	diffuse := diffuseFraction * beamNormal * (1 + math.Cos(tiltRad)) / 2
	reflected := groundAlbedo * beamNormal * sinAltitude * (1 - math.Cos(tiltRad)) / 2

	return math.Max(0, beam+diffuse+reflected)
}

// SolarPowerKw converts clear-sky irradiance into electrical output for an
// array with the given peak rating, normalising against the 1000 W/m²
// standard-test-condition reference.
func SolarPowerKw(hour, maxPowerKw, latitudeDeg, tiltDeg float64, dayOfYear int) float64 {
	irradiance := CalculateIrradiance(dayOfYear, hour, latitudeDeg, tiltDeg)
	return maxPowerKw * (irradiance / stcIrradiance) * systemEfficiency
}

// AmbientTempC models the diurnal temperature cycle as a cosine centred on
// a 14:00 peak, with amplitude half the min/max spread.
func AmbientTempC(hour, minTemp, maxTemp float64) float64 {
	average := (minTemp + maxTemp) / 2
	amplitude := (maxTemp - minTemp) / 2
	return average + amplitude*math.Cos(2*math.Pi*(hour-14.0)/24.0)
}

// CoolingPowerKw returns the electrical draw of the cooling system. It is
// zero at or below the thermal threshold and otherwise grows with the
// temperature excess plus a small contribution from the compute load,
// divided by the coefficient of performance.
func CoolingPowerKw(facilityTempC, computeLoadKw, thresholdC float64) float64 {
	if facilityTempC <= thresholdC {
		return 0
	}
	thermalLoad := (facilityTempC-thresholdC)*coolingKwPerDegC + computeLoadKw*coolingLoadFactor
	return math.Max(0, thermalLoad/coolingCOP)
}

// NextFacilityTemp advances the facility temperature by one step: the
// temperature relaxes towards ambient, gains heat from the compute load and
// loses heat through cooling.
func NextFacilityTemp(currentTemp, ambientTemp, computeLoadKw, coolingKw, dtHours float64) float64 {
	delta := thermalCouplingPerHour*(ambientTemp-currentTemp) +
		heatGainCPerKwHour*computeLoadKw -
		coolingReliefCPerKwHour*coolingKw
	return currentTemp + delta*dtHours
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
