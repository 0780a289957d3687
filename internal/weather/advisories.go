package weather

import (
	"fmt"

	"github.com/agrinathi/agrinathi-api/internal/domain"
)

// Advisory thresholds.
const (
	FrostBelowC        = 2.0
	HeavyRainAboveMM   = 20.0
	HeatAboveC         = 35.0
	dryRainThresholdMM = 0.1
)

// Advisories derives farming warnings from daily forecasts. Per-day
// warnings come first in date order; a dry spell warning covering the
// whole forecast comes last.
func Advisories(days []domain.DailyForecast) []domain.Advisory {
	out := []domain.Advisory{}
	dry := len(days) > 0

	for i := range days {
		d := days[i]
		date := d.Date

		if d.TempMin < FrostBelowC {
			out = append(out, domain.Advisory{
				Kind: domain.AdvisoryFrost,
				Date: &date,
				Message: fmt.Sprintf("Frost risk on %s with a low of %.0f°C. Cover seedlings and delay transplanting.",
					date.Format("Mon 2 Jan"), d.TempMin),
			})
		}
		if d.RainMM > HeavyRainAboveMM {
			out = append(out, domain.Advisory{
				Kind: domain.AdvisoryHeavyRain,
				Date: &date,
				Message: fmt.Sprintf("Heavy rain of %.0f mm expected on %s. Clear drainage channels and hold off on fertilizer.",
					d.RainMM, date.Format("Mon 2 Jan")),
			})
		}
		if d.TempMax > HeatAboveC {
			out = append(out, domain.Advisory{
				Kind: domain.AdvisoryHeat,
				Date: &date,
				Message: fmt.Sprintf("High of %.0f°C expected on %s. Water early in the morning and shade young plants.",
					d.TempMax, date.Format("Mon 2 Jan")),
			})
		}
		if d.RainMM >= dryRainThresholdMM {
			dry = false
		}
	}

	if dry {
		out = append(out, domain.Advisory{
			Kind: domain.AdvisoryDrySpell,
			Message: fmt.Sprintf("No rain expected for the next %d days. Plan irrigation and mulch to keep soil moisture.",
				len(days)),
		})
	}
	return out
}
