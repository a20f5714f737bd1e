package catalog

import "slices"

// Intelligence holds the smart defaults and effect hints for one category.
type Intelligence struct {
	PhysicalForm          string   `json:"physicalForm"`
	CreativeLevel         int      `json:"creativeLevel"`
	LightingStyle         string   `json:"lightingStyle"`
	LiquidDripAppropriate bool     `json:"liquidDripAppropriate"`
	PowderAppropriate     bool     `json:"powderAppropriate"`
	SuggestedBackgrounds  []string `json:"suggestedBackgrounds"`
	SuggestedMoods        []string `json:"suggestedMoods"`
}

var intelligence = map[string]Intelligence{
	"Beauty & Personal Care": {
		PhysicalForm:          "Cream",
		CreativeLevel:         7,
		LightingStyle:         "Studio Softbox",
		LiquidDripAppropriate: true,
		SuggestedBackgrounds:  []string{"Marble/Stone", "Pure White", "Minimalist Bathroom"},
		SuggestedMoods:        []string{"Luxury & Sophistication", "Fresh & Clean"},
	},
	"Beverages & Spirits": {
		PhysicalForm:          "Liquid",
		CreativeLevel:         8,
		LightingStyle:         "Dramatic Rim Lighting",
		LiquidDripAppropriate: true,
		SuggestedBackgrounds:  []string{"Dark Wood", "Urban Bar", "Splash Photography"},
		SuggestedMoods:        []string{"Premium", "Refreshing"},
	},
	"Books & Media": {
		PhysicalForm:         "Solid",
		CreativeLevel:        4,
		LightingStyle:        "Natural Sunlight",
		SuggestedBackgrounds: []string{"Wooden Bookshelf", "Cozy Reading Nook", "Minimalist Desk"},
		SuggestedMoods:       []string{"Intellectual", "Warm & Academic", "Cozy"},
	},
	"Kitchenware & Cookware": {
		PhysicalForm:          "Solid",
		CreativeLevel:         6,
		LightingStyle:         "High Key",
		LiquidDripAppropriate: true,
		PowderAppropriate:     true,
		SuggestedBackgrounds:  []string{"Modern Kitchen Countertop", "Tiled Backsplash", "Rustic Wooden Table"},
		SuggestedMoods:        []string{"Culinary Excellence", "Homey & Warm", "Professional"},
	},
	"Consumer Electronics": {
		PhysicalForm:         "Solid",
		CreativeLevel:        5,
		LightingStyle:        "Cinematic High-Contrast",
		SuggestedBackgrounds: []string{"Matte Black Surface", "Abstract Tech Background"},
		SuggestedMoods:       []string{"Futuristic", "High-Tech"},
	},
	"Luxury Fragrance": {
		PhysicalForm:          "Liquid",
		CreativeLevel:         9,
		LightingStyle:         "Dreamy Backlit",
		LiquidDripAppropriate: true,
		PowderAppropriate:     true,
		SuggestedBackgrounds:  []string{"Ethereal Clouds", "Gilded Pedestals"},
		SuggestedMoods:        []string{"Opulent", "Sensual"},
	},
	"Furniture & Home Decor": {
		PhysicalForm:         "Solid",
		CreativeLevel:        6,
		LightingStyle:        "Natural Sunlight",
		SuggestedBackgrounds: []string{"Spacious Living Room", "Architectural Void", "Soft Rug"},
		SuggestedMoods:       []string{"Comfortable", "Modernist", "Aspirational"},
	},
	"Stationery & Office": {
		PhysicalForm:         "Solid",
		CreativeLevel:        5,
		LightingStyle:        "Studio Softbox",
		PowderAppropriate:    true,
		SuggestedBackgrounds: []string{"Flat Lay Desk", "Architectural Studio", "Textured Paper"},
		SuggestedMoods:       []string{"Creative", "Organized", "Minimalist"},
	},
}

// IntelligenceFor returns a copy of the intelligence entry for category.
// Categories without an entry report false.
func IntelligenceFor(category string) (Intelligence, bool) {
	in, ok := intelligence[category]
	if !ok {
		return Intelligence{}, false
	}
	in.SuggestedBackgrounds = slices.Clone(in.SuggestedBackgrounds)
	in.SuggestedMoods = slices.Clone(in.SuggestedMoods)
	return in, true
}

// IntelligentCategories lists the categories that carry smart defaults, in
// catalog order.
func IntelligentCategories() []string {
	out := make([]string, 0, len(intelligence))
	for _, c := range categories {
		if _, ok := intelligence[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
