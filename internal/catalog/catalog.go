package catalog

import (
	"slices"
	"strconv"
)

type NamedOption struct {
	Key  string
	Name string
}

var categories = []string{
	"Beauty & Personal Care",
	"Beverages & Spirits",
	"Books & Media",
	"Kitchenware & Cookware",
	"Consumer Electronics",
	"Fashion & Accessories",
	"Footwear",
	"Furniture & Home Decor",
	"Gourmet Food",
	"Health & Wellness",
	"Home Office & Furniture",
	"Home Appliances",
	"Jewelry & Watches",
	"Luxury Fragrance",
	"Outdoor Gear",
	"Garden & Patio",
	"Pet Supplies",
	"Sports Equipment",
	"Musical Instruments",
	"Automotive Accessories",
	"Stationery & Office",
	"Tools & Hardware",
	"Toys & Games",
	"Travel Gear",
	"Baby & Toddler",
	"Arts, Crafts & Hobby",
	"Vitamins & Supplements",
	"Industrial & Scientific",
}

var physicalForms = []string{
	"Cream",
	"Liquid",
	"Gel",
	"Powder",
	"Solid",
	"Spray",
	"Oil",
	"Paste",
	"Waxy",
	"Granular",
	"Aerosol",
	"Capsule/Tablet",
	"Mist",
	"Serum",
	"Balm",
	"Foam",
	"Textile/Fabric",
	"Paper/Cardstock",
	"Metal/Hardware",
}

var containerTypes = []string{
	"Glass Bottle",
	"Plastic Bottle",
	"Glass Jar",
	"Plastic Jar",
	"Metal Can",
	"Tube",
	"Pump Bottle",
	"Dropper Bottle",
	"Spray Bottle",
	"Cardboard Box",
	"Sachet/Pouch",
	"Wrapped",
	"Tin",
	"Display Stand",
	"Compact",
	"Stick",
	"Hardcover/Binding",
	"Ceramic/Stone Vessel",
	"Wooden Crate",
	"Open/No Container",
}

var (
	visualStyles   = []string{"Modern", "Luxury", "Minimalist", "Vintage", "Industrial", "Bohemian", "High-Tech", "Organic", "Cinematic", "Ethereal"}
	brandPositions = []string{"Mass Market", "Premium", "Luxury/Niche", "Eco-Friendly", "Edgy/Disruptive"}
	resolutions    = []string{"4K", "6K", "8K", "12K"}
	aspectRatios   = []string{"1:1", "4:5", "9:16", "16:9", "2:3"}
	depthsOfField  = []string{"Shallow (Bokeh)", "Medium", "Deep (Infinite)"}
	cameraAngles   = []string{"Eye-level", "Low-angle (Hero)", "High-angle", "Top-down (Flat lay)", "Macro/Extreme Close-up"}
	lightingStyles = []string{"Studio Softbox", "Natural Sunlight", "Golden Hour", "Dramatic Rim Lighting", "Neon/Cyberpunk", "High Key", "Low Key"}
	mascotStyles   = []string{"Abstract", "Cartoon", "3D Character", "Minimal Line"}
)

func Categories() []string { return slices.Clone(categories) }
func PhysicalForms() []string { return slices.Clone(physicalForms) }
func ContainerTypes() []string { return slices.Clone(containerTypes) }
func VisualStyles() []string { return slices.Clone(visualStyles) }
func BrandPositions() []string { return slices.Clone(brandPositions) }
func Resolutions() []string { return slices.Clone(resolutions) }
func AspectRatios() []string { return slices.Clone(aspectRatios) }
func DepthsOfField() []string { return slices.Clone(depthsOfField) }
func CameraAngles() []string { return slices.Clone(cameraAngles) }
func LightingStyles() []string { return slices.Clone(lightingStyles) }
func MascotStyles() []string { return slices.Clone(mascotStyles) }

func IsCategory(v string) bool { return slices.Contains(categories, v) }
func IsPhysicalForm(v string) bool { return slices.Contains(physicalForms, v) }
func IsContainerType(v string) bool { return slices.Contains(containerTypes, v) }
func IsVisualStyle(v string) bool { return slices.Contains(visualStyles, v) }
func IsBrandPosition(v string) bool { return slices.Contains(brandPositions, v) }
func IsResolution(v string) bool { return slices.Contains(resolutions, v) }
func IsAspectRatio(v string) bool { return slices.Contains(aspectRatios, v) }
func IsDepthOfField(v string) bool { return slices.Contains(depthsOfField, v) }
func IsCameraAngle(v string) bool { return slices.Contains(cameraAngles, v) }
func IsMascotStyle(v string) bool { return slices.Contains(mascotStyles, v) }

// Options turns a plain list into keyboard-friendly options. Key is the
// position in the list so that long names fit into callback payloads.
func Options(values []string) []NamedOption {
	out := make([]NamedOption, 0, len(values))
	for i, v := range values {
		out = append(out, NamedOption{Key: strconv.Itoa(i), Name: v})
	}
	return out
}

// Lookup resolves a key produced by Options back to its value.
func Lookup(values []string, key string) (string, bool) {
	idx, err := strconv.Atoi(key)
	if err != nil || idx < 0 || idx >= len(values) {
		return "", false
	}
	return values[idx], true
}

// IsLightingStyle also accepts the category lighting defaults, some of which
// are not offered as manual choices.
func IsLightingStyle(v string) bool {
	if slices.Contains(lightingStyles, v) {
		return true
	}
	for _, in := range intelligence {
		if in.LightingStyle == v {
			return true
		}
	}
	return false
}
