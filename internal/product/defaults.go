package product

import "blueprint-studio/internal/catalog"

// ResolveDefaults switches cfg to category and fills in the category's smart
// defaults for every field the user has not touched yet. Categories without
// an intelligence entry only change the category itself.
//
// The liquid drip flag is OR'd with the category hint, so a category change
// can turn it on but never off. Powder and the suggested backgrounds/moods
// are deliberately left alone.
func ResolveDefaults(cfg Configuration, category string) Configuration {
	out := cfg.Clone()
	out.Category = category

	intel, ok := catalog.IntelligenceFor(category)
	if !ok {
		return out
	}

	if !out.Touched.Has(FieldPhysicalForm) {
		out.PhysicalForm = intel.PhysicalForm
	}
	if !out.Touched.Has(FieldCreativeLevel) {
		out.CreativeLevel = intel.CreativeLevel
	}
	if !out.Touched.Has(FieldLightingStyle) {
		out.LightingStyle = intel.LightingStyle
	}
	out.Effects.LiquidDripEnabled = out.Effects.LiquidDripEnabled || intel.LiquidDripAppropriate

	return out
}
