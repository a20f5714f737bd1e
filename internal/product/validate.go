package product

import (
	"fmt"
	"strings"

	"blueprint-studio/internal/catalog"
)

// ValidationError reports a configuration problem that must be fixed before
// anything is sent to the generation service.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func invalid(f Field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: f.String(), Message: fmt.Sprintf(format, args...)}
}

// RequireName is the only check that gates generation.
func (c Configuration) RequireName() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid(FieldName, "product name is required")
	}
	return nil
}

// Validate checks enumerated fields against the catalog and numeric ranges.
// It does not require a product name so that partially filled forms can be
// saved.
func (c Configuration) Validate() error {
	enums := []struct {
		f     Field
		value string
		ok    func(string) bool
	}{
		{FieldCategory, c.Category, catalog.IsCategory},
		{FieldPhysicalForm, c.PhysicalForm, catalog.IsPhysicalForm},
		{FieldContainerType, c.ContainerType, catalog.IsContainerType},
		{FieldBrandPositioning, c.BrandPositioning, catalog.IsBrandPosition},
		{FieldResolution, c.Resolution, catalog.IsResolution},
		{FieldAspectRatio, c.AspectRatio, catalog.IsAspectRatio},
		{FieldCameraAngle, c.CameraAngle, catalog.IsCameraAngle},
		{FieldLightingStyle, c.LightingStyle, catalog.IsLightingStyle},
		{FieldDepthOfField, c.DepthOfField, catalog.IsDepthOfField},
	}
	for _, e := range enums {
		if !e.ok(e.value) {
			return invalid(e.f, "unknown value %q", e.value)
		}
	}

	for _, style := range c.Styles {
		if !catalog.IsVisualStyle(style) {
			return invalid(FieldStyles, "unknown style %q", style)
		}
	}
	if c.Effects.MascotEnabled && !catalog.IsMascotStyle(c.Effects.MascotStyle) {
		return invalid(FieldEffects, "unknown mascot style %q", c.Effects.MascotStyle)
	}

	if c.ShadowIntensity < 0 || c.ShadowIntensity > 100 {
		return invalid(FieldShadowIntensity, "must be between 0 and 100, got %d", c.ShadowIntensity)
	}
	if c.CreativeLevel < 1 || c.CreativeLevel > 10 {
		return invalid(FieldCreativeLevel, "must be between 1 and 10, got %d", c.CreativeLevel)
	}
	if c.IsPack && strings.TrimSpace(c.PackSize) == "" {
		return invalid(FieldPackSize, "pack size is required for a pack")
	}
	return nil
}
