package brief

import (
	"slices"

	"google.golang.org/genai"
)

// Variant is one generated photography blueprint.
type Variant struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Purpose     string   `json:"purpose"`
	Description string   `json:"description"`
	FullPrompt  string   `json:"fullPrompt"`
	Sections    Sections `json:"sections"`
}

type Sections struct {
	Header     string `json:"header"`
	Scene      string `json:"scene"`
	Placement  string `json:"placement"`
	Supporting string `json:"supporting"`
	Dynamic    string `json:"dynamic"`
	Lighting   string `json:"lighting"`
	Camera     string `json:"camera"`
	Color      string `json:"color"`
	Tech       string `json:"tech"`
	Quality    string `json:"quality"`
	Negative   string `json:"negative"`
}

var variantFields = []string{"id", "title", "purpose", "description", "fullPrompt", "sections"}

var sectionNames = []string{
	"header",
	"scene",
	"placement",
	"supporting",
	"dynamic",
	"lighting",
	"camera",
	"color",
	"tech",
	"quality",
	"negative",
}

// SectionNames lists the eleven section keys in display order.
func SectionNames() []string { return slices.Clone(sectionNames) }

// Get returns the section by its JSON name.
func (s Sections) Get(name string) string {
	switch name {
	case "header":
		return s.Header
	case "scene":
		return s.Scene
	case "placement":
		return s.Placement
	case "supporting":
		return s.Supporting
	case "dynamic":
		return s.Dynamic
	case "lighting":
		return s.Lighting
	case "camera":
		return s.Camera
	case "color":
		return s.Color
	case "tech":
		return s.Tech
	case "quality":
		return s.Quality
	case "negative":
		return s.Negative
	}
	return ""
}

// ResponseSchema describes an array of exactly n variants with every field
// required.
func ResponseSchema(n int) *genai.Schema {
	sectionProps := make(map[string]*genai.Schema, len(sectionNames))
	for _, name := range sectionNames {
		sectionProps[name] = &genai.Schema{Type: genai.TypeString}
	}

	count := int64(n)
	return &genai.Schema{
		Type:     genai.TypeArray,
		MinItems: &count,
		MaxItems: &count,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":          {Type: genai.TypeString},
				"title":       {Type: genai.TypeString},
				"purpose":     {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
				"fullPrompt":  {Type: genai.TypeString},
				"sections": {
					Type:             genai.TypeObject,
					Properties:       sectionProps,
					Required:         SectionNames(),
					PropertyOrdering: SectionNames(),
				},
			},
			Required:         slices.Clone(variantFields),
			PropertyOrdering: slices.Clone(variantFields),
		},
	}
}
