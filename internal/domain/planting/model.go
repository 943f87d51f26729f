package planting

// Recommendation rates one crop for a month.
type Recommendation struct {
	Plant       string `json:"plant" yaml:"plant"`
	Suitability string `json:"suitability" yaml:"suitability"`
	Label       string `json:"label" yaml:"-"`
	Reason      string `json:"reason" yaml:"reason"`
}

// MonthPlan is the planting outlook for one month.
type MonthPlan struct {
	Month           string           `json:"month" yaml:"month"`
	Season          string           `json:"season" yaml:"season"`
	Rainfall        float64          `json:"rainfall" yaml:"rainfall"`
	Temp            float64          `json:"temp" yaml:"temp"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
}

// MonthlyRecord is observed rainfall (mm) and mean temperature for a past month.
type MonthlyRecord struct {
	Month    string  `json:"month" yaml:"month"`
	Rainfall float64 `json:"rainfall" yaml:"rainfall"`
	Temp     float64 `json:"temp" yaml:"temp"`
}

// SuitabilityLabel returns the Indonesian label for a crop suitability.
func SuitabilityLabel(s string) string {
	switch s {
	case "excellent":
		return "Sangat Cocok"
	case "good":
		return "Cocok"
	case "caution":
		return "Hati-hati"
	default:
		return ""
	}
}

// AdviceLabel returns the Indonesian label for a daily plant advice.
func AdviceLabel(a string) string {
	switch a {
	case "excellent":
		return "Sangat Baik"
	case "good":
		return "Baik"
	case "caution":
		return "Hati-hati"
	case "avoid":
		return "Hindari"
	default:
		return ""
	}
}
