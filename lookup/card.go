package lookup

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Card is the display form of a product, one ready-to-print line per field.
type Card struct {
	Barcode     string `json:"barcode"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url,omitempty"`
	Ingredients string `json:"ingredients"`
	Allergens   string `json:"allergens"`
	NutriScore  string `json:"nutri_score"`
}

// NewCard renders p. Text is NFC-normalized so composed and decomposed
// accents from the database print the same.
func NewCard(p Product) Card {
	return Card{
		Barcode:     p.Barcode,
		Name:        orDefault(p.Name, "N/A"),
		ImageURL:    strings.TrimSpace(p.ImageURL),
		Ingredients: "Ingredients: " + orDefault(p.Ingredients, "N/A"),
		Allergens:   "Allergens: " + orDefault(p.Allergens, "None"),
		NutriScore:  NutriScoreLine(p.NutriScore),
	}
}

// Lines returns the card body in display order.
func (c Card) Lines() []string {
	return []string{c.Name, c.Ingredients, c.Allergens, c.NutriScore}
}

// NutriScoreLine shows grades a..e upper-cased and N/A for anything else.
func NutriScoreLine(grade string) string {
	g := strings.ToLower(strings.TrimSpace(grade))
	switch g {
	case "a", "b", "c", "d", "e":
		return "Nutri-Score: " + strings.ToUpper(g)
	}
	return "Nutri-Score: N/A"
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return def
	}
	return s
}
