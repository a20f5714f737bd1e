package brief

import (
	"fmt"
	"slices"
	"strings"

	"blueprint-studio/internal/catalog"
	"blueprint-studio/internal/product"
)

const fallbackPersona = "A professional and elegant model interacting naturally with the product."

var standardSuite = []string{"Hero", "Lifestyle", "Detail", "Dynamic", "Flat Lay", "Atmospheric"}

func roleBlock(product.Configuration) string {
	return "You are an expert product photography director specializing in high-end e-commerce visuals.\n" +
		"Based on the provided product details, generate a set of production-ready photography blueprints."
}

func productBlock(cfg product.Configuration) string {
	var b strings.Builder
	b.WriteString("PRODUCT INFO:\n")
	writeLine(&b, "Name", strings.TrimSpace(cfg.Name))
	writeLine(&b, "Category", cfg.Category)
	writeLine(&b, "Form", cfg.PhysicalForm)
	writeLine(&b, "Container", cfg.ContainerType)
	writeLine(&b, "Styles", joinSet(cfg.Styles))
	writeLine(&b, "Branding", cfg.BrandPositioning)
	writeLine(&b, "Mood", joinSet(cfg.MoodTags))
	writeLine(&b, "Color palette", strings.Join(cfg.Colors, ", "))

	b.WriteString("\nTECHNICAL:\n")
	writeLine(&b, "Resolution", cfg.Resolution)
	writeLine(&b, "Aspect ratio", cfg.AspectRatio)
	writeLine(&b, "Lighting", cfg.LightingStyle)
	writeLine(&b, "Camera angle", cfg.CameraAngle)
	writeLine(&b, "Depth of field", cfg.DepthOfField)
	writeLine(&b, "Shadow intensity", fmt.Sprintf("%d%%", cfg.ShadowIntensity))
	writeLine(&b, "Creative level", fmt.Sprintf("%d/10 (%s)", cfg.CreativeLevel, creativeRegister(cfg.CreativeLevel)))
	return b.String()
}

func categoryBlock(cfg product.Configuration) string {
	n := nuanceFor(cfg.Category)

	var b strings.Builder
	b.WriteString("CATEGORY SPECIFIC INSTRUCTIONS (" + cfg.Category + "):\n")
	b.WriteString("- " + n.Material + "\n")
	if cfg.ModelEnabled {
		b.WriteString("- Model interaction: " + n.Interaction + "\n")
	}
	if intel, ok := catalog.IntelligenceFor(cfg.Category); ok {
		writeLine(&b, "Suggested backgrounds", strings.Join(intel.SuggestedBackgrounds, ", "))
		writeLine(&b, "Suggested moods", strings.Join(intel.SuggestedMoods, ", "))
	}
	return b.String()
}

func hasEffects(cfg product.Configuration) bool {
	e := cfg.Effects
	return e.LiquidDripEnabled || e.PowderEnabled || e.MascotEnabled || len(e.Accessories) > 0
}

func effectsBlock(cfg product.Configuration) string {
	e := cfg.Effects
	var lines []string
	if e.LiquidDripEnabled {
		lines = append(lines, "Liquid drip: integrate controlled drips or a frozen splash in the Dynamic variation; keep labels and branding clean.")
	}
	if e.PowderEnabled {
		lines = append(lines, "Powder/mist: add a fine powder burst or atmospheric mist around the product, never covering key details.")
	}
	if e.MascotEnabled {
		lines = append(lines, "Mascot: include a "+e.MascotStyle+" brand mascot as a supporting element that never competes with the product.")
	}
	if len(e.Accessories) > 0 {
		lines = append(lines, "Supporting props: "+strings.Join(e.Accessories, ", ")+".")
	}

	var b strings.Builder
	b.WriteString("PRODUCTION EFFECTS:\n")
	for _, line := range lines {
		b.WriteString("- " + line + "\n")
	}
	return b.String()
}

func packBlock(cfg product.Configuration) string {
	if !cfg.IsPack {
		return "Focus on the individual product as the main hero."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("CRITICAL: This is a MULTI-PRODUCT PACK (%s). Every prompt MUST depict the entire collection as a single cohesive scene.\n", strings.TrimSpace(cfg.PackSize)))
	b.WriteString("- Arrange all items in the pack deliberately: symmetrical line, artistic cluster, or staggered depth.\n")
	b.WriteString("- The collective presence is the hero of the shot, not just a single item.\n")
	return b.String()
}

func modelBlock(cfg product.Configuration) string {
	var b strings.Builder
	if !cfg.ModelEnabled {
		b.WriteString("NO HUMAN SUBJECTS:\n")
		b.WriteString("- No human model is requested. Do not show people, faces, hands, or any other body parts in any variation.\n")
		b.WriteString("- Keep focus strictly on the product and props.\n")
		b.WriteString(fmt.Sprintf("- Generate %d variations: %s.\n", BaseVariantCount, strings.Join(standardSuite, ", ")))
		return b.String()
	}

	persona := strings.TrimSpace(cfg.ModelPersona)
	if persona == "" {
		persona = fallbackPersona
	}

	b.WriteString("MODEL INTEGRATION:\n")
	b.WriteString("- The user wants to include a human model.\n")
	b.WriteString("- Model Persona/Action: " + persona + "\n")
	b.WriteString(fmt.Sprintf("- You MUST generate %d variations in total.\n", ModelVariantCount))
	b.WriteString(fmt.Sprintf("- Variations 1-%d: Standard E-commerce Suite (%s).\n", BaseVariantCount, strings.Join(standardSuite, ", ")))
	b.WriteString(fmt.Sprintf("- Variations %d and %d: EXCLUSIVE 'Interaction Blueprints'. These MUST focus on physical contact between the model and the product: the grip, the touch, the utility in use.\n", BaseVariantCount+1, ModelVariantCount))
	b.WriteString("- Interaction examples: a hand gripping a handle, a finger pressing a button, a hand holding the product while walking.\n")
	return b.String()
}

func hasReference(cfg product.Configuration) bool {
	return strings.TrimSpace(cfg.ReferenceImage) != ""
}

func referenceBlock(product.Configuration) string {
	var b strings.Builder
	b.WriteString("REFERENCE IMAGE (IDENTITY LOCK):\n")
	b.WriteString("- A photo of the real product is attached. Every blueprint must describe this exact object.\n")
	b.WriteString("- Preserve shape, proportions, materials, colors, and branding exactly; never substitute a different product.\n")
	b.WriteString("- If the reference has no text or logo, do not invent any.\n")
	return b.String()
}

func outputBlock(cfg product.Configuration) string {
	n := VariantCount(cfg)

	var b strings.Builder
	b.WriteString("OUTPUT RULES:\n")
	b.WriteString("- Ensure the prompts are highly descriptive, using professional photography terminology (f-stop, ISO, lens types, lighting setups like softboxes or rim lights).\n")
	b.WriteString(fmt.Sprintf("- Return exactly %d variations as a JSON array matching the required schema.\n", n))
	b.WriteString("- Every variation needs a unique id, a title, a purpose, a description, and one cohesive fullPrompt.\n")
	b.WriteString("- Fill every section: " + strings.Join(SectionNames(), ", ") + ".\n")
	return b.String()
}

func creativeRegister(level int) string {
	switch {
	case level <= 3:
		return "conservative catalog"
	case level <= 7:
		return "balanced editorial"
	default:
		return "bold conceptual"
	}
}

// joinSet renders an unordered set deterministically.
func joinSet(values []string) string {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return strings.Join(sorted, ", ")
}

func writeLine(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString("- " + label + ": " + value + "\n")
}
