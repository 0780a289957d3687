package domain

// Treatment is a remedy for a disease or pest.
type Treatment struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Disease is a plant disease known to the knowledge base.
type Disease struct {
	Name       string      `json:"name"`
	Symptoms   []string    `json:"symptoms,omitempty"`
	Causes     []string    `json:"causes,omitempty"`
	Treatments []Treatment `json:"treatments,omitempty"`
}

// Pest is an insect or animal pest known to the knowledge base.
type Pest struct {
	Name       string      `json:"name"`
	Signs      []string    `json:"signs,omitempty"`
	Treatments []Treatment `json:"treatments,omitempty"`
}

// Crop carries planting guidance for a crop.
type Crop struct {
	Name    string `json:"name"`
	Season  string `json:"season"`
	Spacing string `json:"spacing"`
	Tips    string `json:"tips,omitempty"`
}
