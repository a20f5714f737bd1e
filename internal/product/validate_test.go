package product

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	require.NoError(t, New().Validate())
	for _, category := range []string{"Consumer Electronics", "Luxury Fragrance"} {
		require.NoError(t, ResolveDefaults(New(), category).Validate(), category)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		field string
	}{
		{"category", Patch{Category: ptr("Spaceships")}, "category"},
		{"form", Patch{PhysicalForm: ptr("Plasma")}, "physicalForm"},
		{"style", Patch{Styles: []string{"Modern", "Baroque"}}, "styles"},
		{"shadow", Patch{ShadowIntensity: ptr(101)}, "shadowIntensity"},
		{"creative", Patch{CreativeLevel: ptr(0)}, "creativeLevel"},
		{"pack size", Patch{IsPack: ptr(true), PackSize: ptr(" ")}, "packSize"},
		{"mascot", Patch{Effects: &EffectsPatch{MascotEnabled: ptr(true), MascotStyle: ptr("Gothic")}}, "advancedEffects"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Apply(New()).Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRequireName(t *testing.T) {
	err := Patch{Name: ptr("   ")}.Apply(New()).RequireName()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)

	assert.NoError(t, Patch{Name: ptr("Chef Knife")}.Apply(New()).RequireName())
}
