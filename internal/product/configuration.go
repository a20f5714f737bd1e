package product

import (
	"encoding/json"
	"slices"

	"blueprint-studio/internal/catalog"
)

type Configuration struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	PhysicalForm  string `json:"physicalForm"`
	ContainerType string `json:"containerType"`

	IsPack   bool   `json:"isPack"`
	PackSize string `json:"packSize"`

	ModelEnabled bool   `json:"modelEnabled"`
	ModelPersona string `json:"modelPersona"`

	Styles           []string `json:"styles"`
	Colors           []string `json:"colors"`
	BrandPositioning string   `json:"brandPositioning"`
	MoodTags         []string `json:"moodTags"`

	Resolution      string `json:"resolution"`
	AspectRatio     string `json:"aspectRatio"`
	CameraAngle     string `json:"cameraAngle"`
	LightingStyle   string `json:"lightingStyle"`
	DepthOfField    string `json:"depthOfField"`
	ShadowIntensity int    `json:"shadowIntensity"`
	CreativeLevel   int    `json:"creativeLevel"`

	Effects Effects `json:"advancedEffects"`

	// ReferenceImage is passed through to the generation request untouched.
	ReferenceImage string `json:"referenceImage,omitempty"`

	Touched Fields `json:"touched"`
}

type Effects struct {
	MascotEnabled     bool     `json:"mascotEnabled"`
	MascotStyle       string   `json:"mascotStyle"`
	LiquidDripEnabled bool     `json:"liquidDripEnabled"`
	PowderEnabled     bool     `json:"powderEnabled"`
	Accessories       []string `json:"accessories"`
}

// Defaults returns the baseline form state before any category has been
// resolved.
func Defaults() Configuration {
	return Configuration{
		Category:         catalog.Categories()[0],
		PhysicalForm:     catalog.PhysicalForms()[0],
		ContainerType:    catalog.ContainerTypes()[0],
		PackSize:         "Pack of 6",
		Styles:           []string{"Modern", "Luxury"},
		Colors:           []string{"#8B5CF6"},
		BrandPositioning: "Premium",
		MoodTags:         []string{"Clean", "Sophisticated"},
		Resolution:       "8K",
		AspectRatio:      "4:5",
		DepthOfField:     "Shallow (Bokeh)",
		CameraAngle:      "Eye-level",
		LightingStyle:    "Studio Softbox",
		ShadowIntensity:  50,
		CreativeLevel:    7,
		Effects: Effects{
			MascotStyle: "Abstract",
			Accessories: []string{},
		},
	}
}

// New returns the state a fresh session starts from: the baseline with the
// initial category already resolved.
func New() Configuration {
	cfg := Defaults()
	return ResolveDefaults(cfg, cfg.Category)
}

func (c Configuration) Clone() Configuration {
	out := c
	out.Styles = slices.Clone(c.Styles)
	out.Colors = slices.Clone(c.Colors)
	out.MoodTags = slices.Clone(c.MoodTags)
	out.Effects.Accessories = slices.Clone(c.Effects.Accessories)
	return out
}

func (c Configuration) HasStyle(style string) bool {
	return slices.Contains(c.Styles, style)
}

// ToggleStyle adds or removes style from the multi-select set.
func (c Configuration) ToggleStyle(style string) Configuration {
	out := c.Clone()
	if i := slices.Index(out.Styles, style); i >= 0 {
		out.Styles = slices.Delete(out.Styles, i, i+1)
	} else {
		out.Styles = append(out.Styles, style)
	}
	out.Touched = out.Touched.With(FieldStyles)
	return out
}

// Field identifies one user-editable configuration field.
type Field uint32

const (
	FieldName Field = 1 << iota
	FieldCategory
	FieldPhysicalForm
	FieldContainerType
	FieldIsPack
	FieldPackSize
	FieldModelEnabled
	FieldModelPersona
	FieldStyles
	FieldColors
	FieldBrandPositioning
	FieldMoodTags
	FieldResolution
	FieldAspectRatio
	FieldCameraAngle
	FieldLightingStyle
	FieldDepthOfField
	FieldShadowIntensity
	FieldCreativeLevel
	FieldEffects
	FieldReferenceImage
)

var fieldNames = []struct {
	f    Field
	name string
}{
	{FieldName, "name"},
	{FieldCategory, "category"},
	{FieldPhysicalForm, "physicalForm"},
	{FieldContainerType, "containerType"},
	{FieldIsPack, "isPack"},
	{FieldPackSize, "packSize"},
	{FieldModelEnabled, "modelEnabled"},
	{FieldModelPersona, "modelPersona"},
	{FieldStyles, "styles"},
	{FieldColors, "colors"},
	{FieldBrandPositioning, "brandPositioning"},
	{FieldMoodTags, "moodTags"},
	{FieldResolution, "resolution"},
	{FieldAspectRatio, "aspectRatio"},
	{FieldCameraAngle, "cameraAngle"},
	{FieldLightingStyle, "lightingStyle"},
	{FieldDepthOfField, "depthOfField"},
	{FieldShadowIntensity, "shadowIntensity"},
	{FieldCreativeLevel, "creativeLevel"},
	{FieldEffects, "advancedEffects"},
	{FieldReferenceImage, "referenceImage"},
}

func (f Field) String() string {
	for _, fn := range fieldNames {
		if fn.f == f {
			return fn.name
		}
	}
	return "unknown"
}

// Fields is the set of fields the user has explicitly edited.
type Fields uint32

func (s Fields) Has(f Field) bool { return s&Fields(f) != 0 }

func (s Fields) With(f Field) Fields { return s | Fields(f) }

func (s Fields) Names() []string {
	out := []string{}
	for _, fn := range fieldNames {
		if s.Has(fn.f) {
			out = append(out, fn.name)
		}
	}
	return out
}

func (s Fields) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *Fields) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var out Fields
	for _, name := range names {
		for _, fn := range fieldNames {
			if fn.name == name {
				out = out.With(fn.f)
			}
		}
	}
	*s = out
	return nil
}
