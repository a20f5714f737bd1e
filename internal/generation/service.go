package generation

import (
	"context"
	"io"
	"log/slog"
	"time"

	"blueprint-studio/internal/brief"
	"blueprint-studio/internal/product"
)

// Generator runs one compiled brief against the external service.
type Generator interface {
	Generate(ctx context.Context, b brief.Brief) ([]brief.Variant, error)
}

type Options struct {
	Generator Generator
	Logger    *slog.Logger
}

type Service struct {
	gen    Generator
	logger *slog.Logger
}

type Result struct {
	Brief    brief.Brief
	Variants []brief.Variant
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{gen: opts.Generator, logger: logger}
}

// Compile returns the brief Generate would send, without sending it.
func (s *Service) Compile(cfg product.Configuration) brief.Brief {
	return brief.Compile(cfg)
}

// Generate validates cfg, compiles it and performs one generation call.
// A blank product name fails with *product.ValidationError before anything
// is sent.
func (s *Service) Generate(ctx context.Context, cfg product.Configuration) (Result, error) {
	if err := cfg.RequireName(); err != nil {
		return Result{}, err
	}

	b := brief.Compile(cfg)
	start := time.Now()
	s.logger.Info("generation started",
		"product", cfg.Name,
		"category", cfg.Category,
		"variants", b.VariantCount,
		"pack", cfg.IsPack,
		"model", cfg.ModelEnabled,
	)

	variants, err := s.gen.Generate(ctx, b)
	if err != nil {
		s.logger.Error("generation failed", "product", cfg.Name, "took", time.Since(start), "error", err)
		return Result{}, err
	}

	s.logger.Info("generation finished", "product", cfg.Name, "variants", len(variants), "took", time.Since(start))
	return Result{Brief: b, Variants: variants}, nil
}
