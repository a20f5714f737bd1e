package brief

type nuance struct {
	Material    string
	Interaction string
}

var genericNuance = nuance{
	Material:    "Focus on the product's defining materials, finish, and silhouette; keep the environment supportive and uncluttered.",
	Interaction: "Show the product being held or used naturally, with hands and contact points clearly visible.",
}

var (
	kitchenNuance = nuance{
		Material:    "For Kitchenware: focus on heat, steam, stainless steel reflections, or food-safe environments.",
		Interaction: "Visualize the model chopping, plating, or holding the utensil with confidence, e.g. over a rustic chopping board.",
	}
	booksNuance = nuance{
		Material:    "For Books/Media: focus on paper texture and binding details.",
		Interaction: "Visualize the model reading in a cozy setting, turning a page, or carrying the book in a lifestyle bag.",
	}
	electronicsNuance = nuance{
		Material:    "For Electronics: focus on sleek surfaces and LED glows.",
		Interaction: "Visualize the model interacting with the UI, wearing the device, or using it in a high-tech environment.",
	}
	furnitureNuance = nuance{
		Material:    "For Furniture: focus on space, scale, and materials.",
		Interaction: "Visualize the model relaxing or working at a desk naturally.",
	}
	jewelryNuance = nuance{
		Material:    "For Jewelry/Watches: focus on extreme macro reflections and elegance.",
		Interaction: "Focus on skin contact: hands, wrists, or necklines wearing the items with professional grace.",
	}
)

var nuances = map[string]nuance{
	"Kitchenware & Cookware":  kitchenNuance,
	"Books & Media":           booksNuance,
	"Consumer Electronics":    electronicsNuance,
	"Furniture & Home Decor":  furnitureNuance,
	"Home Office & Furniture": furnitureNuance,
	"Jewelry & Watches":       jewelryNuance,
}

func nuanceFor(category string) nuance {
	if n, ok := nuances[category]; ok {
		return n
	}
	return genericNuance
}
