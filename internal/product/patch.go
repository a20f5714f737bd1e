package product

import (
	"slices"
	"strings"
)

// Patch is a partial update. Every non-nil field is applied and marked as
// touched. It is the only way front ends edit a Configuration.
type Patch struct {
	Name          *string `json:"name,omitempty" yaml:"name,omitempty"`
	Category      *string `json:"category,omitempty" yaml:"category,omitempty"`
	PhysicalForm  *string `json:"physicalForm,omitempty" yaml:"physicalForm,omitempty"`
	ContainerType *string `json:"containerType,omitempty" yaml:"containerType,omitempty"`

	IsPack   *bool   `json:"isPack,omitempty" yaml:"isPack,omitempty"`
	PackSize *string `json:"packSize,omitempty" yaml:"packSize,omitempty"`

	ModelEnabled *bool   `json:"modelEnabled,omitempty" yaml:"modelEnabled,omitempty"`
	ModelPersona *string `json:"modelPersona,omitempty" yaml:"modelPersona,omitempty"`

	Styles           []string `json:"styles,omitempty" yaml:"styles,omitempty"`
	Colors           []string `json:"colors,omitempty" yaml:"colors,omitempty"`
	BrandPositioning *string  `json:"brandPositioning,omitempty" yaml:"brandPositioning,omitempty"`
	MoodTags         []string `json:"moodTags,omitempty" yaml:"moodTags,omitempty"`

	Resolution      *string `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	AspectRatio     *string `json:"aspectRatio,omitempty" yaml:"aspectRatio,omitempty"`
	CameraAngle     *string `json:"cameraAngle,omitempty" yaml:"cameraAngle,omitempty"`
	LightingStyle   *string `json:"lightingStyle,omitempty" yaml:"lightingStyle,omitempty"`
	DepthOfField    *string `json:"depthOfField,omitempty" yaml:"depthOfField,omitempty"`
	ShadowIntensity *int    `json:"shadowIntensity,omitempty" yaml:"shadowIntensity,omitempty"`
	CreativeLevel   *int    `json:"creativeLevel,omitempty" yaml:"creativeLevel,omitempty"`

	Effects *EffectsPatch `json:"advancedEffects,omitempty" yaml:"advancedEffects,omitempty"`

	ReferenceImage *string `json:"referenceImage,omitempty" yaml:"referenceImage,omitempty"`
}

type EffectsPatch struct {
	MascotEnabled     *bool    `json:"mascotEnabled,omitempty" yaml:"mascotEnabled,omitempty"`
	MascotStyle       *string  `json:"mascotStyle,omitempty" yaml:"mascotStyle,omitempty"`
	LiquidDripEnabled *bool    `json:"liquidDripEnabled,omitempty" yaml:"liquidDripEnabled,omitempty"`
	PowderEnabled     *bool    `json:"powderEnabled,omitempty" yaml:"powderEnabled,omitempty"`
	Accessories       []string `json:"accessories,omitempty" yaml:"accessories,omitempty"`
}

// Apply returns cfg with the patch applied. Explicit field edits land before
// a category change is resolved so that they count as touched.
func (p Patch) Apply(cfg Configuration) Configuration {
	out := cfg.Clone()

	setString(&out, p.Name, &out.Name, FieldName)
	setString(&out, p.PhysicalForm, &out.PhysicalForm, FieldPhysicalForm)
	setString(&out, p.ContainerType, &out.ContainerType, FieldContainerType)
	setBool(&out, p.IsPack, &out.IsPack, FieldIsPack)
	setString(&out, p.PackSize, &out.PackSize, FieldPackSize)
	setBool(&out, p.ModelEnabled, &out.ModelEnabled, FieldModelEnabled)
	setString(&out, p.ModelPersona, &out.ModelPersona, FieldModelPersona)
	setList(&out, p.Styles, &out.Styles, FieldStyles)
	setList(&out, p.Colors, &out.Colors, FieldColors)
	setString(&out, p.BrandPositioning, &out.BrandPositioning, FieldBrandPositioning)
	setList(&out, p.MoodTags, &out.MoodTags, FieldMoodTags)
	setString(&out, p.Resolution, &out.Resolution, FieldResolution)
	setString(&out, p.AspectRatio, &out.AspectRatio, FieldAspectRatio)
	setString(&out, p.CameraAngle, &out.CameraAngle, FieldCameraAngle)
	setString(&out, p.LightingStyle, &out.LightingStyle, FieldLightingStyle)
	setString(&out, p.DepthOfField, &out.DepthOfField, FieldDepthOfField)
	setInt(&out, p.ShadowIntensity, &out.ShadowIntensity, FieldShadowIntensity)
	setInt(&out, p.CreativeLevel, &out.CreativeLevel, FieldCreativeLevel)
	setString(&out, p.ReferenceImage, &out.ReferenceImage, FieldReferenceImage)

	if e := p.Effects; e != nil {
		setBool(&out, e.MascotEnabled, &out.Effects.MascotEnabled, FieldEffects)
		setString(&out, e.MascotStyle, &out.Effects.MascotStyle, FieldEffects)
		setBool(&out, e.LiquidDripEnabled, &out.Effects.LiquidDripEnabled, FieldEffects)
		setBool(&out, e.PowderEnabled, &out.Effects.PowderEnabled, FieldEffects)
		setList(&out, e.Accessories, &out.Effects.Accessories, FieldEffects)
	}

	if p.Category != nil {
		category := strings.TrimSpace(*p.Category)
		out.Touched = out.Touched.With(FieldCategory)
		if category != cfg.Category {
			out = ResolveDefaults(out, category)
		}
	}

	return out
}

// Empty reports whether the patch carries no edits.
func (p Patch) Empty() bool {
	return p.Apply(Configuration{}).Touched == 0
}

func setString(cfg *Configuration, src *string, dst *string, f Field) {
	if src == nil {
		return
	}
	*dst = *src
	cfg.Touched = cfg.Touched.With(f)
}

func setBool(cfg *Configuration, src *bool, dst *bool, f Field) {
	if src == nil {
		return
	}
	*dst = *src
	cfg.Touched = cfg.Touched.With(f)
}

func setInt(cfg *Configuration, src *int, dst *int, f Field) {
	if src == nil {
		return
	}
	*dst = *src
	cfg.Touched = cfg.Touched.With(f)
}

func setList(cfg *Configuration, src []string, dst *[]string, f Field) {
	if src == nil {
		return
	}
	*dst = uniq(slices.Clone(src))
	cfg.Touched = cfg.Touched.With(f)
}

func uniq(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
