package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"blueprint-studio/internal/brief"
	"blueprint-studio/internal/gemini"
	"blueprint-studio/internal/product"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

type stubGenerator struct {
	calls int
	got   brief.Brief
	out   []brief.Variant
	err   error
}

func (s *stubGenerator) Generate(_ context.Context, b brief.Brief) ([]brief.Variant, error) {
	s.calls++
	s.got = b
	return s.out, s.err
}

func ptr[T any](v T) *T { return &v }

func TestGenerateBlankNameSkipsService(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		gen := &stubGenerator{}
		svc := New(Options{Generator: gen})

		cfg := product.Patch{Name: ptr(name)}.Apply(product.New())
		_, err := svc.Generate(context.Background(), cfg)

		var verr *product.ValidationError
		require.True(t, errors.As(err, &verr), "name %q", name)
		assert.Equal(t, "name", verr.Field)
		assert.Zero(t, gen.calls)
	}
}

func TestGenerateCompilesAndCalls(t *testing.T) {
	gen := &stubGenerator{out: make([]brief.Variant, 8)}
	svc := New(Options{Generator: gen})

	cfg := product.Patch{Name: ptr("Trail Runner"), ModelEnabled: ptr(true)}.Apply(product.New())
	res, err := svc.Generate(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 8, gen.got.VariantCount)
	assert.Equal(t, res.Brief.SystemInstruction, gen.got.SystemInstruction)
	assert.Len(t, res.Variants, 8)
	assert.Equal(t, svc.Compile(cfg).SystemInstruction, res.Brief.SystemInstruction)
}

func TestGeneratePassesServiceErrorThrough(t *testing.T) {
	gen := &stubGenerator{err: &gemini.Error{Kind: gemini.KindRateLimited, Message: "429"}}
	svc := New(Options{Generator: gen})

	cfg := product.Patch{Name: ptr("Cold Brew")}.Apply(product.New())
	before := cfg.Clone()
	res, err := svc.Generate(context.Background(), cfg)

	assert.ErrorIs(t, err, gemini.ErrRateLimited)
	assert.Empty(t, res.Variants)
	assert.Equal(t, before, cfg)
	assert.Equal(t, 1, gen.calls)
}
