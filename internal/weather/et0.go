package weather

import (
	"math"
	"time"
)

const (
	solarConstant = 0.0820 // MJ m-2 min-1
	// mjToMM converts radiation in MJ m-2 day-1 to equivalent evaporation in mm.
	mjToMM = 0.408
)

// extraterrestrialRadiation returns Ra in MJ m-2 day-1 for a latitude in
// degrees and a calendar date (FAO-56 eq. 21).
func extraterrestrialRadiation(latitude float64, date time.Time) float64 {
	j := float64(date.YearDay())
	phi := latitude * math.Pi / 180

	dr := 1 + 0.033*math.Cos(2*math.Pi*j/365)
	delta := 0.409 * math.Sin(2*math.Pi*j/365-1.39)

	x := -math.Tan(phi) * math.Tan(delta)
	x = math.Max(-1, math.Min(1, x))
	ws := math.Acos(x)

	return 24 * 60 / math.Pi * solarConstant * dr *
		(ws*math.Sin(phi)*math.Sin(delta) + math.Cos(phi)*math.Cos(delta)*math.Sin(ws))
}

// HargreavesET0 estimates reference evapotranspiration in mm/day from the
// daily temperature range.
func HargreavesET0(tmin, tmax, latitude float64, date time.Time) float64 {
	tmean := (tmin + tmax) / 2
	ra := extraterrestrialRadiation(latitude, date) * mjToMM
	et0 := 0.0023 * (tmean + 17.8) * math.Sqrt(math.Max(tmax-tmin, 0)) * ra
	if et0 < 0 {
		return 0
	}
	return math.Round(et0*100) / 100
}
