package knowledge

import (
	"fmt"
	"strings"

	"github.com/agrinathi/agrinathi-api/internal/domain"
)

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// FormatSolution renders a match as advice text. Categories without a
// template report false and the caller generates general advice instead.
func FormatSolution(m Match) (string, bool) {
	e := m.Entry
	switch m.Category {
	case domain.CategoryDiseases:
		return fmt.Sprintf("For %s: %s. Symptoms include: %s.",
			orDefault(e.Name, "plant disease"),
			joinOr(e.Solutions, "Consult agricultural expert"),
			joinOr(e.Symptoms, "various signs")), true
	case domain.CategoryPests:
		return fmt.Sprintf("For %s: %s. Look for: %s.",
			orDefault(e.Name, "pest problem"),
			joinOr(e.Solutions, "Use appropriate pest control"),
			joinOr(e.Symptoms, "pest signs")), true
	case domain.CategoryFertilizers:
		return fmt.Sprintf("For fertilization: %s - %s. Benefits: %s.",
			orDefault(e.Name, "fertilizer"),
			joinOr(e.Usage, "Apply as directed"),
			joinOr(e.Benefits, "improved plant health")), true
	case domain.CategoryWatering:
		return fmt.Sprintf("Watering guidance: %s. Tips: %s.",
			orDefault(e.Advice, "Water appropriately"),
			joinOr(e.Tips, "monitor soil moisture")), true
	case domain.CategoryPlanting:
		return fmt.Sprintf("Planting advice for %s: Plant in %s. Spacing: %s. %s.",
			orDefault(e.Crop, "crops"),
			orDefault(e.Season, "appropriate season"),
			orDefault(e.Spacing, "follow guidelines"),
			joinOr(e.Tips, "Follow best practices")), true
	default:
		return "", false
	}
}
