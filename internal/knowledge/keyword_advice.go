package knowledge

import (
	"strings"

	"github.com/agrinathi/agrinathi-api/internal/domain"
)

// KeywordAdvice is a canned answer for an isiZulu keyword.
type KeywordAdvice struct {
	Keyword  string
	Priority int
	Category domain.Category
	English  string
	Zulu     string
}

// keywordTable is ordered; among equal priorities the earlier entry wins.
var keywordTable = []KeywordAdvice{
	{
		Keyword:  "izitshalo",
		Priority: 1,
		Category: domain.CategoryGeneral,
		English:  "For plant care: Ensure proper watering, use organic fertilizers, and monitor for pests regularly. Regular soil testing helps maintain optimal nutrient levels.",
		Zulu:     "Ngokunakekela izitshalo: Qinisekisa ukunisela okufanele, sebenzisa umanyolo wemvelo, futhi ubheke izinambuzane njalo. Ukuhlola inhlabathi njalo kusiza ukugcina amazinga afanele ezakhi.",
	},
	{
		Keyword:  "zifo",
		Priority: 1,
		Category: domain.CategoryDiseases,
		English:  "For plant diseases: Remove affected leaves immediately, improve air circulation, and use copper-based fungicides. Early detection prevents spread to healthy plants.",
		Zulu:     "Ngezifo zezitshalo: Susa amaqabunga athintekile ngokushesha, thuthukisa ukuhamba komoya, futhi use ama-fungicide asuselwe ku-copper. Ukuthola kusenesikhathi kuvimbela ukusabalala ezitshalweni ezinempilo.",
	},
	{
		Keyword:  "nambuzane",
		Priority: 1,
		Category: domain.CategoryPests,
		English:  "For pest control: Use neem oil spray, introduce beneficial insects, and practice proper crop rotation. Integrated pest management reduces chemical dependency.",
		Zulu:     "Ngokulawula izinambuzane: Sebenzisa isifutho se-neem oil, ngenisa izinambuzane ezisizayo, futhi wenze ukushintshana kwezitshalo. Ukuphathwa okudidiyelwe kwezinambuzane kunciphisa ukuncika kumakhemikhali.",
	},
	{
		Keyword:  "nisela",
		Priority: 2,
		Category: domain.CategoryWatering,
		English:  "Watering advice: Water deeply but infrequently, early morning is best, avoid wetting leaves to prevent fungal diseases. Use drip irrigation for water efficiency.",
		Zulu:     "Iseluleko sokunisela: Nisele ngokujulile kodwa kungavamile, ekuseni kuyinhle kakhulu, gwema ukumanzisa amaqabunga ukuvimbela izifo zokungcola. Sebenzisa i-drip irrigation ukuze ulondoloze amanzi.",
	},
	{
		Keyword:  "umanyolo",
		Priority: 2,
		Category: domain.CategoryFertilizers,
		English:  "Fertilizer guidance: Use balanced NPK fertilizer, apply during growing season, test soil pH first. Organic compost improves soil structure and microbial activity.",
		Zulu:     "Ukuholwa ngomanyolo: Sebenzisa umanyolo obhalansiwe we-NPK, faka ngesikhathi sokukhula, hlola i-pH yenhlabathi kuqala. Umquba wemvelo uthuthukisa ukwakheka kwenhlabathi kanye nomsebenzi we-microbial.",
	},
	{
		Keyword:  "imbewu",
		Priority: 2,
		Category: domain.CategoryPlanting,
		English:  "Seed planting: Plant during correct season, ensure proper spacing, keep soil moist until germination. Use certified seeds for better yields.",
		Zulu:     "Ukubeka imbewu: Tshala ngesikhathi esifanele, qinisekisa isikhala esifanele, gcina inhlabathi imanzi kuze kube yilapho imbewu imila. Sebenzisa imbewu eqinisekisiwe ukuze uthole isivuno esingcono.",
	},
	{
		Keyword:  "isimo sezulu",
		Priority: 2,
		Category: domain.CategoryWeather,
		English:  "Weather considerations: Monitor forecasts, protect crops from frost, prepare drainage for heavy rain. Climate-smart agriculture adapts to changing weather patterns.",
		Zulu:     "Ukucabangela isimo sezulu: Buka izibikezelo, vikela izitshalo eqhweni, lungiselela ukukhipha amanzi emvuleni enkulu. Ezolimo ezihlakaniphile ngokwemvelo zivumelana namaphethini esimo sezulu ashintshayo.",
	},
	{
		Keyword:  "khuni",
		Priority: 3,
		Category: domain.CategoryGeneral,
		English:  "Maize care: Plant in well-drained soil, fertilize regularly, watch for corn borer and rust diseases. Harvest at 20-25% moisture content for optimal storage.",
		Zulu:     "Ukunakekela ummbila: Tshala enhlabathini ekhipha amanzi kahle, faka umanyolo njalo, bheka i-corn borer nezifo ze-rust. Vuna uma kunomswakama we-20-25% wokugcina okungcono.",
	},
	{
		Keyword:  "utshani",
		Priority: 3,
		Category: domain.CategoryGeneral,
		English:  "Weed control: Use mulching, hand weeding, or organic herbicides. Prevent weed competition for nutrients. Mechanical cultivation disrupts weed growth cycles.",
		Zulu:     "Ukulawula utshani: Sebenzisa i-mulching, ukulima ngesandla, noma ama-herbicide emvelo. Vimbela ukuncintisana kotshani ngamaminerali. Ukulima ngemishini kuphazamisa imijikelezo yokukhula kotshani.",
	},
	{
		Keyword:  "umhlaba",
		Priority: 3,
		Category: domain.CategorySoil,
		English:  "Soil management: Test soil pH regularly, add organic matter, practice conservation tillage. Healthy soil is the foundation of successful farming.",
		Zulu:     "Ukuphathwa kwenhlabathi: Hlola i-pH yenhlabathi njalo, engeza izinto eziphilayo, wenze i-conservation tillage. Inhlabathi enempilo iyisisekelo sezolimo eziphumelelayo.",
	},
	{
		Keyword:  "isivuno",
		Priority: 3,
		Category: domain.CategoryGeneral,
		English:  "Harvesting: Harvest at correct maturity, use proper tools, store in cool dry place. Post-harvest handling affects final product quality.",
		Zulu:     "Ukuvuna: Vuna lapho kuvuthiwe kahle, sebenzisa amathuluzi afanele, gcina endaweni epholile futhi eyomile. Ukuphathwa kwangemva kokuvuna kuthinta ikhwalithi yomkhiqizo wokugcina.",
	},
	{
		Keyword:  "izilwane",
		Priority: 3,
		Category: domain.CategoryGeneral,
		English:  "Livestock care: Provide clean water, balanced feed, regular health checks, proper housing. Animal health directly impacts farm productivity.",
		Zulu:     "Ukunakekela izilwane: Nikeza amanzi ahlanzekile, ukudla okubhalansiwe, ukuhlola impilo njalo, nendawo yokuhlala efanele. Impilo yezilwane ithinta ngokuqondile ukukhiqiza kwepulazi.",
	},
}

// MatchKeyword returns the highest priority keyword advice whose keyword
// appears in text.
func MatchKeyword(text string) (KeywordAdvice, bool) {
	lower := strings.ToLower(text)
	var best KeywordAdvice
	found := false
	for _, k := range keywordTable {
		if !strings.Contains(lower, k.Keyword) {
			continue
		}
		if !found || k.Priority < best.Priority {
			best = k
			found = true
		}
	}
	return best, found
}

var defaultAdvice = []string{
	"General farming advice: Practice sustainable agriculture, monitor your crops regularly, maintain soil health, and seek local extension services for specific guidance. Sustainable farming practices ensure long-term productivity and environmental health.",
	"Farming best practices: Ensure proper crop rotation, use organic fertilizers when possible, maintain adequate soil moisture, and regularly inspect plants for pests and diseases. Early intervention prevents major crop losses.",
	"Agricultural recommendations: Test your soil pH annually, apply balanced fertilizers based on soil test results, practice integrated pest management, and keep detailed records of your farming activities for better planning.",
	"Crop management guidance: Monitor weather patterns closely, protect young plants from extreme conditions, use certified seeds, and maintain proper plant spacing for optimal growth and disease prevention.",
}

// DefaultAdvice picks a general answer from the shape of the question:
// longer questions get best practices, requests for help get
// recommendations.
func DefaultAdvice(text string) string {
	lower := strings.ToLower(text)
	switch {
	case len(strings.Fields(text)) > 3:
		return defaultAdvice[1]
	case strings.Contains(lower, "help") || strings.Contains(lower, "usizo"):
		return defaultAdvice[2]
	default:
		return defaultAdvice[0]
	}
}
