package knowledge

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/agrinathi/agrinathi-api/internal/domain"
)

type tipGroup struct {
	category domain.Category
	words    []string
	lead     string
	tips     []string
	closing  string
}

var tipGroups = []tipGroup{
	{
		category: domain.CategoryDiseases,
		words:    []string{"disease", "diseased", "sick", "infection", "fungus", "blight", "rot", "zifo"},
		lead:     "For plant diseases, ",
		tips: []string{
			"Remove affected leaves and improve air circulation",
			"Apply copper-based fungicide spray",
			"Use organic neem oil solution",
			"Ensure proper plant spacing to reduce humidity",
		},
		closing: "Monitor regularly and consult extension services if condition worsens.",
	},
	{
		category: domain.CategoryPests,
		words:    []string{"pest", "insect", "bug", "aphid", "worm", "nambuzane"},
		lead:     "For pest control, ",
		tips: []string{
			"Use soapy water spray to remove pests",
			"Introduce beneficial ladybugs to control aphids",
			"Apply diatomaceous earth around plants",
			"Use row covers to protect young plants",
		},
		closing: "Regular monitoring is essential for effective management.",
	},
	{
		category: domain.CategoryWatering,
		words:    []string{"water", "watering", "nisela"},
		lead:     "For watering, ",
		tips: []string{
			"Water deeply but infrequently to encourage deep roots",
			"Water early morning to reduce evaporation",
			"Check soil moisture 2 inches deep before watering",
			"Use drip irrigation for consistent moisture",
		},
		closing: "Proper watering prevents both drought stress and root rot.",
	},
	{
		category: domain.CategoryFertilizers,
		words:    []string{"fertilizer", "manure", "compost", "umanyolo"},
		lead:     "For fertilization, ",
		tips: []string{
			"Use balanced NPK fertilizer during growing season",
			"Apply organic compost around plant bases",
			"Test soil pH before fertilizing",
			"Use slow-release fertilizers for steady nutrition",
		},
		closing: "Regular soil testing ensures optimal nutrient balance.",
	},
	{
		category: domain.CategoryPlanting,
		words:    []string{"plant", "seed", "sow", "imbewu"},
		lead:     "For planting, ",
		tips: []string{
			"Plant during correct season for best germination",
			"Ensure proper seed-to-soil contact",
			"Space plants according to variety requirements",
			"Keep soil consistently moist until germination",
		},
		closing: "Proper planting techniques maximize crop success.",
	},
	{
		category: domain.CategoryWeather,
		words:    []string{"weather", "rain", "sun", "isimo sezulu"},
		lead:     "For weather considerations, ",
		tips: []string{
			"Monitor weather forecasts for planting decisions",
			"Protect crops from frost using covers",
			"Prepare drainage for heavy rain periods",
			"Use windbreaks in exposed areas",
		},
		closing: "Weather adaptation improves crop resilience.",
	},
	{
		category: domain.CategorySoil,
		words:    []string{"soil", "ground", "earth", "umhlaba"},
		lead:     "For soil management, ",
		tips: []string{
			"Test soil pH regularly for optimal fertility",
			"Add organic matter to improve soil structure",
			"Practice crop rotation to maintain soil health",
			"Use cover crops to prevent erosion",
		},
		closing: "Healthy soil is the foundation of successful farming.",
	},
}

var generalGroup = tipGroup{
	category: domain.CategoryGeneral,
	tips: []string{
		"Practice sustainable farming methods",
		"Monitor crops regularly for early problem detection",
		"Maintain soil health through organic practices",
		"Seek local extension services for specific guidance",
		"Keep detailed farming records for better planning",
		"Use integrated pest management approaches",
	},
	closing: "Consistent good practices lead to better farming outcomes.",
}

// Generator produces numbered, randomized tips for a question.
type Generator struct {
	intN func(n int) int
}

// NewGenerator returns a generator. A nil intN uses math/rand/v2.
func NewGenerator(intN func(n int) int) *Generator {
	if intN == nil {
		intN = rand.IntN
	}
	return &Generator{intN: intN}
}

// Generate returns "Advice #NNNN: ..." with NNNN in [1000, 9999] and a tip
// from the first keyword group the query mentions.
func (g *Generator) Generate(query string) (string, domain.Category) {
	lower := strings.ToLower(query)
	number := 1000 + g.intN(9000)

	group := generalGroup
	for _, tg := range tipGroups {
		if containsAny(lower, tg.words) {
			group = tg
			break
		}
	}

	tip := group.tips[g.intN(len(group.tips))]
	return fmt.Sprintf("Advice #%d: %s%s. %s", number, group.lead, tip, group.closing), group.category
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
