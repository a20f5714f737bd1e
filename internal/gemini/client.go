package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"google.golang.org/genai"

	"blueprint-studio/internal/brief"
)

const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultTemperature = 0.7
)

// ContentGenerator is the slice of the genai SDK the client needs.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	APIVersion  string
	// Temperature is used as is when set, including 0. Nil or out of
	// range values fall back to DefaultTemperature.
	Temperature *float32
	HTTPClient  *http.Client
	Logger      *slog.Logger

	// Generator replaces the SDK backend when set.
	Generator ContentGenerator
}

type Client struct {
	gen         ContentGenerator
	model       string
	temperature float32
	logger      *slog.Logger
}

// New builds a client. A missing API key is not an error here; Generate
// reports it as KindAuth on first use.
func New(ctx context.Context, opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	temperature := float32(DefaultTemperature)
	if t := opts.Temperature; t != nil && *t >= 0 && *t <= 2 {
		temperature = *t
	}

	c := &Client{
		gen:         opts.Generator,
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
	if c.gen != nil {
		return c, nil
	}

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		logger.Warn("gemini api key is not set; generation will fail until it is configured")
		return c, nil
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
			APIVersion: strings.TrimSpace(opts.APIVersion),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.gen = cli.Models
	return c, nil
}

func (c *Client) Model() string { return c.model }

// Generate performs exactly one service call for b and decodes the reply.
func (c *Client) Generate(ctx context.Context, b brief.Brief) ([]brief.Variant, error) {
	if c.gen == nil {
		return nil, &Error{Kind: KindAuth, Message: "GEMINI_API_KEY is not configured"}
	}

	contents, err := userContents(b)
	if err != nil {
		return nil, err
	}

	temperature := c.temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(b.SystemInstruction, genai.RoleUser),
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    b.Schema,
	}

	start := time.Now()
	c.logger.Info("gemini request",
		"model", c.model,
		"variants", b.VariantCount,
		"reference_image", b.ReferenceImage != "",
		"instruction_bytes", len(b.SystemInstruction),
	)

	resp, err := c.gen.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		gerr := classify(err)
		c.logger.Warn("gemini request failed", "model", c.model, "kind", gerr.Kind.String(), "took", time.Since(start), "error", err)
		return nil, gerr
	}

	text := responseText(resp)
	variants, err := brief.DecodeVariants(text, b.VariantCount)
	if err != nil {
		c.logger.Warn("gemini response rejected", "model", c.model, "bytes", len(text), "error", err)
		return nil, &Error{Kind: KindMalformedResponse, Message: err.Error(), Err: err}
	}
	c.logger.Info("gemini response", "model", c.model, "variants", len(variants), "took", time.Since(start))
	return variants, nil
}

func userContents(b brief.Brief) ([]*genai.Content, error) {
	parts := []*genai.Part{genai.NewPartFromText(b.UserPrompt)}
	if b.ReferenceImage != "" {
		data, mime, err := decodeDataURL(b.ReferenceImage, "image/jpeg")
		if err != nil {
			return nil, &Error{Kind: KindInvalidInput, Message: "reference image: " + err.Error(), Err: err}
		}
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

var dataURLRegex = regexp.MustCompile(`^data:([^;]+);base64,`)

// decodeDataURL accepts either a data URL or bare base64.
func decodeDataURL(value, fallbackMime string) ([]byte, string, error) {
	value = strings.TrimSpace(value)
	mime := fallbackMime
	if matches := dataURLRegex.FindStringSubmatch(value); len(matches) == 2 {
		mime = matches[1]
	}
	if idx := strings.IndexByte(value, ','); idx >= 0 {
		value = value[idx+1:]
	}
	if value == "" {
		return nil, "", errors.New("empty image data")
	}

	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	return data, mime, nil
}
