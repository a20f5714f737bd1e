// Package render formats compiled briefs and variant batches for people.
package render

import (
	"fmt"
	"strings"

	"blueprint-studio/internal/brief"
)

var sectionTitles = map[string]string{
	"header":     "Header",
	"scene":      "Scene",
	"placement":  "Placement",
	"supporting": "Supporting elements",
	"dynamic":    "Dynamic elements",
	"lighting":   "Lighting",
	"camera":     "Camera",
	"color":      "Color",
	"tech":       "Technical",
	"quality":    "Quality",
	"negative":   "Negative prompt",
}

func SectionTitle(name string) string {
	if t, ok := sectionTitles[name]; ok {
		return t
	}
	return name
}

// Markdown renders a whole batch as one document.
func Markdown(variants []brief.Variant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %d photography blueprints\n", len(variants))
	for i, v := range variants {
		b.WriteString("\n")
		writeVariantMarkdown(&b, i, v)
	}
	return b.String()
}

func writeVariantMarkdown(b *strings.Builder, i int, v brief.Variant) {
	fmt.Fprintf(b, "## %d. %s\n\n", i+1, v.Title)
	if v.Purpose != "" {
		fmt.Fprintf(b, "_%s_\n\n", v.Purpose)
	}
	if v.Description != "" {
		b.WriteString(v.Description + "\n\n")
	}
	b.WriteString("```text\n" + strings.TrimSpace(v.FullPrompt) + "\n```\n\n")
	for _, name := range brief.SectionNames() {
		text := strings.TrimSpace(v.Sections.Get(name))
		if text == "" {
			continue
		}
		fmt.Fprintf(b, "- **%s:** %s\n", SectionTitle(name), text)
	}
}

// Plain renders one variant as chat text.
func Plain(i int, v brief.Variant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s\n", i+1, v.Title)
	if v.Purpose != "" {
		b.WriteString(v.Purpose + "\n")
	}
	if v.Description != "" {
		b.WriteString("\n" + v.Description + "\n")
	}
	b.WriteString("\nPrompt:\n" + strings.TrimSpace(v.FullPrompt) + "\n")

	var lines []string
	for _, name := range brief.SectionNames() {
		if text := strings.TrimSpace(v.Sections.Get(name)); text != "" {
			lines = append(lines, SectionTitle(name)+": "+text)
		}
	}
	writeSection(&b, "Sections", lines)
	return strings.TrimRight(b.String(), "\n")
}

// Directive renders a compiled brief block by block.
func Directive(bf brief.Brief) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Generation directive (%d variants)\n\n", bf.VariantCount)
	for _, blk := range bf.Blocks {
		fmt.Fprintf(&b, "## %s\n\n```text\n%s\n```\n\n", blk.Name, blk.Text)
	}
	b.WriteString("## request\n\n" + bf.UserPrompt + "\n")
	return b.String()
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n" + title + ":\n")
	for _, line := range lines {
		b.WriteString("- " + line + "\n")
	}
}
