package brief

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"blueprint-studio/internal/product"
)

const (
	BaseVariantCount  = 6
	ModelVariantCount = 8
)

// Block is one named section of the system directive.
type Block struct {
	Name string
	Text string
}

// Brief is everything one generation request needs.
type Brief struct {
	VariantCount      int
	Blocks            []Block
	SystemInstruction string
	UserPrompt        string
	Schema            *genai.Schema
	ReferenceImage    string
}

// Block returns the named block, if it was emitted.
func (b Brief) Block(name string) (Block, bool) {
	for _, blk := range b.Blocks {
		if blk.Name == name {
			return blk, true
		}
	}
	return Block{}, false
}

type builder struct {
	name  string
	when  func(product.Configuration) bool
	build func(product.Configuration) string
}

var builders = []builder{
	{name: "role", build: roleBlock},
	{name: "product", build: productBlock},
	{name: "category", build: categoryBlock},
	{name: "effects", when: hasEffects, build: effectsBlock},
	{name: "pack", build: packBlock},
	{name: "model", build: modelBlock},
	{name: "reference", when: hasReference, build: referenceBlock},
	{name: "output", build: outputBlock},
}

// VariantCount is the exact number of variants the service must return.
func VariantCount(cfg product.Configuration) int {
	if cfg.ModelEnabled {
		return ModelVariantCount
	}
	return BaseVariantCount
}

// Compile turns a configuration into a brief. It never fails and never
// modifies cfg.
func Compile(cfg product.Configuration) Brief {
	cfg = cfg.Clone()
	n := VariantCount(cfg)

	blocks := make([]Block, 0, len(builders))
	for _, bld := range builders {
		if bld.when != nil && !bld.when(cfg) {
			continue
		}
		text := strings.TrimSpace(bld.build(cfg))
		if text == "" {
			continue
		}
		blocks = append(blocks, Block{Name: bld.name, Text: text})
	}

	parts := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		parts = append(parts, blk.Text)
	}

	return Brief{
		VariantCount:      n,
		Blocks:            blocks,
		SystemInstruction: strings.Join(parts, "\n\n"),
		UserPrompt:        UserPrompt(n),
		Schema:            ResponseSchema(n),
		ReferenceImage:    strings.TrimSpace(cfg.ReferenceImage),
	}
}

func UserPrompt(n int) string {
	return fmt.Sprintf("Generate %d detailed e-commerce product photography prompt variations as JSON.", n)
}
