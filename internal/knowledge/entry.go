package knowledge

import (
	"strings"

	"github.com/agrinathi/agrinathi-api/internal/domain"
)

// Entry is one knowledge-base item. Which fields are set depends on the
// category: diseases and pests use Solutions and Symptoms, fertilizers use
// Usage and Benefits, watering uses Advice and Tips, planting uses Crop,
// Season, Spacing, Depth and Tips.
type Entry struct {
	Category  domain.Category `yaml:"-" json:"category"`
	Name      string          `yaml:"name" json:"name,omitempty"`
	Type      string          `yaml:"type" json:"type,omitempty"`
	Crop      string          `yaml:"crop" json:"crop,omitempty"`
	Season    string          `yaml:"season" json:"season,omitempty"`
	Spacing   string          `yaml:"spacing" json:"spacing,omitempty"`
	Depth     string          `yaml:"depth" json:"depth,omitempty"`
	Advice    string          `yaml:"advice" json:"advice,omitempty"`
	Symptoms  []string        `yaml:"symptoms" json:"symptoms,omitempty"`
	Causes    []string        `yaml:"causes" json:"causes,omitempty"`
	Solutions []string        `yaml:"solutions" json:"solutions,omitempty"`
	Usage     []string        `yaml:"usage" json:"usage,omitempty"`
	Benefits  []string        `yaml:"benefits" json:"benefits,omitempty"`
	Tips      []string        `yaml:"tips" json:"tips,omitempty"`
}

// Title is the entry's display name.
func (e Entry) Title() string {
	switch {
	case e.Name != "":
		return e.Name
	case e.Crop != "":
		return e.Crop
	default:
		return string(e.Category)
	}
}

// fields returns every text value of the entry in a fixed order.
func (e Entry) fields() []string {
	var out []string
	for _, s := range []string{e.Name, e.Type, e.Crop, e.Season, e.Spacing, e.Depth, e.Advice} {
		if s != "" {
			out = append(out, s)
		}
	}
	for _, list := range [][]string{e.Symptoms, e.Causes, e.Solutions, e.Usage, e.Benefits, e.Tips} {
		out = append(out, list...)
	}
	return out
}

// Text joins all of the entry's text into one document.
func (e Entry) Text() string {
	return strings.Join(e.fields(), " ")
}

// Disease converts a disease entry to its domain form.
func (e Entry) Disease() domain.Disease {
	d := domain.Disease{Name: e.Name, Symptoms: e.Symptoms, Causes: e.Causes}
	for _, s := range e.Solutions {
		d.Treatments = append(d.Treatments, domain.Treatment{Name: s})
	}
	return d
}

// Match is a knowledge-base hit for a query.
type Match struct {
	Category   domain.Category `json:"category"`
	Entry      Entry           `json:"solution"`
	Confidence float64         `json:"confidence"`
}
