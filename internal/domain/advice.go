package domain

// Category groups knowledge-base entries and advice.
type Category string

// Knowledge-base categories.
const (
	CategoryDiseases    Category = "diseases"
	CategoryPests       Category = "pests"
	CategoryFertilizers Category = "fertilizers"
	CategoryWatering    Category = "watering"
	CategoryPlanting    Category = "planting"
	CategoryWeather     Category = "weather"
	CategorySoil        Category = "soil"
	CategoryGeneral     Category = "general"
)

// Categories lists every category in knowledge-base order.
var Categories = []Category{
	CategoryDiseases,
	CategoryPests,
	CategoryFertilizers,
	CategoryWatering,
	CategoryPlanting,
	CategoryWeather,
	CategorySoil,
	CategoryGeneral,
}

// AdviceSource records how a piece of advice was produced.
type AdviceSource string

// Advice sources, from most to least specific.
const (
	SourceKnowledgeBase AdviceSource = "knowledge_base"
	SourceKeyword       AdviceSource = "keyword"
	SourceGenerated     AdviceSource = "generated"
	SourceDefault       AdviceSource = "default"
	SourceFallback      AdviceSource = "fallback"
)

// AgriculturalAdvice is a single recommendation returned to a farmer.
type AgriculturalAdvice struct {
	Category   Category     `json:"category"`
	Text       string       `json:"text"`
	TextZulu   string       `json:"text_zulu,omitempty"`
	Source     AdviceSource `json:"source"`
	Confidence float64      `json:"confidence"`
}
