package brief

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestResponseSchemaRequiresEverySection(t *testing.T) {
	s := ResponseSchema(6)

	require.Equal(t, genai.TypeArray, s.Type)
	require.NotNil(t, s.Items)
	assert.ElementsMatch(t, []string{"id", "title", "purpose", "description", "fullPrompt", "sections"}, s.Items.Required)

	sections := s.Items.Properties["sections"]
	require.NotNil(t, sections)
	assert.Equal(t, genai.TypeObject, sections.Type)
	assert.Equal(t, SectionNames(), sections.Required)
	assert.Len(t, sections.Properties, 11)
	for name, prop := range sections.Properties {
		assert.Equal(t, genai.TypeString, prop.Type, name)
	}
}

func variantJSON(id string, skip string) string {
	var sections []string
	for _, name := range SectionNames() {
		if name == skip {
			continue
		}
		sections = append(sections, fmt.Sprintf("%q: %q", name, name+" text"))
	}
	return fmt.Sprintf(`{"id": %q, "title": "Hero", "purpose": "PDP", "description": "d", "fullPrompt": "p", "sections": {%s}}`,
		id, strings.Join(sections, ", "))
}

func batchJSON(n int, skip string, skipAt int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s := ""
		if i == skipAt {
			s = skip
		}
		items = append(items, variantJSON(fmt.Sprintf("v%d", i+1), s))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestDecodeVariants(t *testing.T) {
	got, err := DecodeVariants(batchJSON(6, "", -1), 6)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, "v1", got[0].ID)
	assert.Equal(t, "negative text", got[5].Sections.Negative)
	assert.Equal(t, "camera text", got[2].Sections.Get("camera"))
}

func TestDecodeVariantsRejectsMissingSection(t *testing.T) {
	for _, name := range SectionNames() {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeVariants(batchJSON(6, name, 3), 6)
			var ferr *FieldError
			require.True(t, errors.As(err, &ferr), "got %v", err)
			assert.Equal(t, 3, ferr.Index)
			assert.Equal(t, "sections."+name, ferr.Field)
		})
	}
}

func TestDecodeVariantsRejectsNullAndMissingTopLevel(t *testing.T) {
	_, err := DecodeVariants(`[{"id": "a", "title": null, "purpose": "", "description": "", "fullPrompt": "", "sections": {}}]`, 1)
	var ferr *FieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "title", ferr.Field)

	_, err = DecodeVariants(`[{"id": "a", "title": "", "purpose": "", "description": "", "fullPrompt": ""}]`, 1)
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "sections", ferr.Field)
}

func TestDecodeVariantsEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "[]", "```json\n[]\n```"} {
		_, err := DecodeVariants(in, 6)
		assert.ErrorIs(t, err, ErrEmptyPayload, "input %q", in)
	}
}

func TestDecodeVariantsRejectsGarbage(t *testing.T) {
	_, err := DecodeVariants(`{"not": "an array"}`, 1)
	require.Error(t, err)
	_, err = DecodeVariants(`[{"id": "a"`, 1)
	require.Error(t, err)
}

func TestDecodeVariantsDuplicateID(t *testing.T) {
	in := "[" + variantJSON("same", "") + "," + variantJSON("same", "") + "]"
	_, err := DecodeVariants(in, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestDecodeVariantsCodeFence(t *testing.T) {
	got, err := DecodeVariants("```json\n" + batchJSON(2, "", -1) + "\n```", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDecodeVariantsRejectsWrongCount(t *testing.T) {
	for _, n := range []int{2, 7} {
		_, err := DecodeVariants(batchJSON(n, "", -1), 6)
		var cerr *CountError
		require.True(t, errors.As(err, &cerr), "got %v", err)
		assert.Equal(t, 6, cerr.Want)
		assert.Equal(t, n, cerr.Got)
	}
}

func TestDecodeVariantsKeysAreCaseSensitive(t *testing.T) {
	upper := strings.Replace(variantJSON("v1", ""), `"sections"`, `"SECTIONS"`, 1)
	_, err := DecodeVariants("["+upper+"]", 1)
	var ferr *FieldError
	require.True(t, errors.As(err, &ferr), "got %v", err)
	assert.Equal(t, "sections", ferr.Field)

	header := strings.Replace(variantJSON("v1", ""), `"header"`, `"Header"`, 1)
	_, err = DecodeVariants("["+header+"]", 1)
	require.True(t, errors.As(err, &ferr), "got %v", err)
	assert.Equal(t, "sections.header", ferr.Field)
}

func TestDecodeVariantsRejectsNonStringField(t *testing.T) {
	in := strings.Replace(variantJSON("v1", ""), `"title": "Hero"`, `"title": 42`, 1)
	_, err := DecodeVariants("["+in+"]", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}
