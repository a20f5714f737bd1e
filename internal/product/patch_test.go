package product

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPatchMarksTouched(t *testing.T) {
	cfg := Patch{
		Name:     ptr("Chef Knife"),
		IsPack:   ptr(true),
		PackSize: ptr("Set of 3"),
		Styles:   []string{"Modern", "Modern", " ", "Industrial"},
	}.Apply(New())

	assert.Equal(t, "Chef Knife", cfg.Name)
	assert.True(t, cfg.IsPack)
	assert.Equal(t, []string{"Modern", "Industrial"}, cfg.Styles)
	assert.Equal(t, []string{"name", "isPack", "packSize", "styles"}, cfg.Touched.Names())
}

func TestPatchFieldEditWinsOverCategoryDefault(t *testing.T) {
	cfg := Patch{
		Category:     ptr("Beverages & Spirits"),
		PhysicalForm: ptr("Gel"),
	}.Apply(New())

	assert.Equal(t, "Beverages & Spirits", cfg.Category)
	assert.Equal(t, "Gel", cfg.PhysicalForm)
	assert.Equal(t, "Dramatic Rim Lighting", cfg.LightingStyle)
}

func TestPatchEffects(t *testing.T) {
	cfg := Patch{Effects: &EffectsPatch{
		PowderEnabled: ptr(true),
		Accessories:   []string{"ice cubes"},
	}}.Apply(New())

	assert.True(t, cfg.Effects.PowderEnabled)
	assert.Equal(t, []string{"ice cubes"}, cfg.Effects.Accessories)
	assert.True(t, cfg.Touched.Has(FieldEffects))
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	assert.True(t, Patch{Effects: &EffectsPatch{}}.Empty())
	assert.False(t, Patch{Name: ptr("")}.Empty())
}

func TestPatchFromJSON(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Cold Brew",
		"category": "Beverages & Spirits",
		"modelEnabled": true,
		"advancedEffects": {"liquidDripEnabled": false}
	}`), &p))

	cfg := p.Apply(New())
	assert.Equal(t, "Cold Brew", cfg.Name)
	assert.True(t, cfg.ModelEnabled)
	assert.Equal(t, "Liquid", cfg.PhysicalForm)
	// The explicit edit lands first and the category change ORs it back on.
	assert.True(t, cfg.Effects.LiquidDripEnabled)
}

func TestTouchedJSONRoundTrip(t *testing.T) {
	cfg := Patch{Name: ptr("x"), CreativeLevel: ptr(2)}.Apply(New())

	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"touched":["name","creativeLevel"]`)

	var back Configuration
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, cfg.Touched, back.Touched)
}

func TestToggleStyle(t *testing.T) {
	cfg := New().ToggleStyle("Vintage")
	assert.True(t, cfg.HasStyle("Vintage"))
	cfg = cfg.ToggleStyle("Modern")
	assert.False(t, cfg.HasStyle("Modern"))
	assert.True(t, cfg.Touched.Has(FieldStyles))
}
