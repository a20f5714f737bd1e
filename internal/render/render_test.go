package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"blueprint-studio/internal/brief"
	"blueprint-studio/internal/product"
)

func sampleVariant() brief.Variant {
	return brief.Variant{
		ID:          "hero",
		Title:       "Hero Shot",
		Purpose:     "Main listing image",
		Description: "Clean studio hero.",
		FullPrompt:  "  A bottle on white seamless, 85mm, f/8.  ",
		Sections: brief.Sections{
			Header:   "Hero",
			Lighting: "Large softbox key",
			Negative: "no text",
		},
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown([]brief.Variant{sampleVariant(), sampleVariant()})

	assert.True(t, strings.HasPrefix(out, "# 2 photography blueprints\n"))
	assert.Contains(t, out, "## 1. Hero Shot")
	assert.Contains(t, out, "## 2. Hero Shot")
	assert.Contains(t, out, "_Main listing image_")
	assert.Contains(t, out, "```text\nA bottle on white seamless, 85mm, f/8.\n```")
	assert.Contains(t, out, "- **Negative prompt:** no text")
	assert.NotContains(t, out, "**Scene:**")
}

func TestPlain(t *testing.T) {
	out := Plain(2, sampleVariant())

	assert.True(t, strings.HasPrefix(out, "3. Hero Shot\n"))
	assert.Contains(t, out, "Prompt:\nA bottle on white seamless")
	assert.Contains(t, out, "Sections:\n- Header: Hero\n- Lighting: Large softbox key\n- Negative prompt: no text")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestDirective(t *testing.T) {
	name := "Cold Brew"
	bf := brief.Compile(product.Patch{Name: &name}.Apply(product.New()))
	out := Directive(bf)

	assert.Contains(t, out, "(6 variants)")
	for _, blk := range bf.Blocks {
		assert.Contains(t, out, "## "+blk.Name)
	}
	assert.Contains(t, out, bf.UserPrompt)
}

func TestSectionTitle(t *testing.T) {
	assert.Equal(t, "Supporting elements", SectionTitle("supporting"))
	assert.Equal(t, "custom", SectionTitle("custom"))
	for _, name := range brief.SectionNames() {
		assert.NotEqual(t, name, SectionTitle(name))
	}
}
