package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"blueprint-studio/internal/brief"
	"blueprint-studio/internal/catalog"
	"blueprint-studio/internal/gemini"
	"blueprint-studio/internal/generation"
	"blueprint-studio/internal/product"
	"blueprint-studio/internal/session"
)

const (
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 10 << 20
)

type generator interface {
	Compile(cfg product.Configuration) brief.Brief
	Generate(ctx context.Context, cfg product.Configuration) (generation.Result, error)
}

type serverOptions struct {
	Generator         generator
	Sessions          *session.Store
	GeneratePerMinute int
	RequestTimeout    time.Duration
	Logger            *slog.Logger
}

type server struct {
	gen            generator
	sessions       *session.Store
	limiter        *rate.Limiter
	requestTimeout time.Duration
	logger         *slog.Logger
}

func newServer(opts serverOptions) *server {
	perMinute := opts.GeneratePerMinute
	if perMinute < 1 {
		perMinute = 10
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &server{
		gen:            opts.Generator,
		sessions:       opts.Sessions,
		limiter:        rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		requestTimeout: timeout,
		logger:         logger,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("POST /api/sessions", s.handleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGet)
	mux.HandleFunc("PATCH /api/sessions/{id}/config", s.handlePatch)
	mux.HandleFunc("POST /api/sessions/{id}/reset", s.handleReset)
	mux.HandleFunc("POST /api/sessions/{id}/reference", s.handleReference)
	mux.HandleFunc("POST /api/sessions/{id}/brief", s.handleBrief)
	mux.HandleFunc("POST /api/sessions/{id}/generate", s.handleGenerate)
	return mux
}

type apiError struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

type sessionView struct {
	ID                string                `json:"id"`
	Config            product.Configuration `json:"config"`
	HasReferenceImage bool                  `json:"hasReferenceImage"`
	VariantCount      int                   `json:"variantCount"`
	Variants          []brief.Variant       `json:"variants"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

func viewOf(sess session.Session) sessionView {
	cfg := sess.Config.Clone()
	hasRef := cfg.ReferenceImage != ""
	cfg.ReferenceImage = ""

	variants := sess.Variants
	if variants == nil {
		variants = []brief.Variant{}
	}
	return sessionView{
		ID:                sess.ID,
		Config:            cfg,
		HasReferenceImage: hasRef,
		VariantCount:      brief.VariantCount(cfg),
		Variants:          variants,
		UpdatedAt:         sess.UpdatedAt,
	}
}

type briefView struct {
	VariantCount      int           `json:"variantCount"`
	Blocks            []brief.Block `json:"blocks"`
	SystemInstruction string        `json:"systemInstruction"`
	UserPrompt        string        `json:"userPrompt"`
	Schema            *genai.Schema `json:"schema"`
}

type generateResponse struct {
	VariantCount int             `json:"variantCount"`
	Variants     []brief.Variant `json:"variants"`
}

type catalogResponse struct {
	Categories     []string                        `json:"categories"`
	PhysicalForms  []string                        `json:"physicalForms"`
	ContainerTypes []string                        `json:"containerTypes"`
	VisualStyles   []string                        `json:"visualStyles"`
	BrandPositions []string                        `json:"brandPositions"`
	Resolutions    []string                        `json:"resolutions"`
	AspectRatios   []string                        `json:"aspectRatios"`
	DepthsOfField  []string                        `json:"depthsOfField"`
	CameraAngles   []string                        `json:"cameraAngles"`
	LightingStyles []string                        `json:"lightingStyles"`
	MascotStyles   []string                        `json:"mascotStyles"`
	Intelligence   map[string]catalog.Intelligence `json:"intelligence"`
}

func (s *server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	intel := make(map[string]catalog.Intelligence)
	for _, c := range catalog.IntelligentCategories() {
		if in, ok := catalog.IntelligenceFor(c); ok {
			intel[c] = in
		}
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Categories:     catalog.Categories(),
		PhysicalForms:  catalog.PhysicalForms(),
		ContainerTypes: catalog.ContainerTypes(),
		VisualStyles:   catalog.VisualStyles(),
		BrandPositions: catalog.BrandPositions(),
		Resolutions:    catalog.Resolutions(),
		AspectRatios:   catalog.AspectRatios(),
		DepthsOfField:  catalog.DepthsOfField(),
		CameraAngles:   catalog.CameraAngles(),
		LightingStyles: catalog.LightingStyles(),
		MascotStyles:   catalog.MascotStyles(),
		Intelligence:   intel,
	})
}

// handleCreate starts a session. An optional JSON patch in the body is
// applied on top of the initial configuration.
func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodePatch(w, r, true)
	if !ok {
		return
	}

	id := uuid.NewString()
	sess := s.sessions.Create(id)
	if !p.Empty() {
		cfg := p.Apply(sess.Config)
		if err := cfg.Validate(); err != nil {
			s.sessions.Delete(id)
			writeValidation(w, err)
			return
		}
		sess, _ = s.sessions.Update(id, func(product.Configuration) product.Configuration { return cfg })
	}
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *server) handlePatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.decodePatch(w, r, false)
	if !ok {
		return
	}

	var verr error
	sess, found := s.sessions.Update(id, func(cfg product.Configuration) product.Configuration {
		next := p.Apply(cfg)
		if verr = next.Validate(); verr != nil {
			return cfg
		}
		return next
	})
	if !found {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	if verr != nil {
		writeValidation(w, verr)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Reset(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// handleReference stores an uploaded product photo as the reference image.
func (s *server) handleReference(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.sessions.Get(id); !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "missing image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "failed to read image"})
		return
	}

	mimeType, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "image/jpeg"
	}

	image := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	sess, ok := s.sessions.Update(id, product.Patch{ReferenceImage: &image}.Apply)
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *server) handleBrief(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	b := s.gen.Compile(sess.Config)
	writeJSON(w, http.StatusOK, briefView{
		VariantCount:      b.VariantCount,
		Blocks:            b.Blocks,
		SystemInstruction: b.SystemInstruction,
		UserPrompt:        b.UserPrompt,
		Schema:            b.Schema,
	})
}

// handleGenerate only spends a rate limiter token on requests that will
// actually reach the generation service.
func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: "session not found"})
		return
	}
	if err := sess.Config.RequireName(); err != nil {
		writeValidation(w, err)
		return
	}

	run, ok := s.sessions.Begin(id)
	if !ok {
		writeJSON(w, http.StatusConflict, apiError{Error: "a generation is already running for this session"})
		return
	}
	defer run.Release()

	if !s.limiter.Allow() {
		w.Header().Set("Retry-After", "60")
		writeJSON(w, http.StatusTooManyRequests, apiError{Error: "too many generation requests", Kind: "local_rate_limit"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	res, err := s.gen.Generate(ctx, run.Session.Config)
	if err != nil {
		s.writeGenerateError(w, id, err)
		return
	}

	if !run.Finish(res.Variants) {
		s.logger.Info("session reset during generation, batch dropped", "session", id)
		writeJSON(w, http.StatusConflict, apiError{Error: "session was reset during generation; results discarded"})
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{VariantCount: len(res.Variants), Variants: res.Variants})
}

func (s *server) writeGenerateError(w http.ResponseWriter, id string, err error) {
	var verr *product.ValidationError
	if errors.As(err, &verr) {
		writeValidation(w, err)
		return
	}

	s.logger.Error("generation failed", "session", id, "err", err)

	var gerr *gemini.Error
	if !errors.As(err, &gerr) {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "generation failed"})
		return
	}
	writeJSON(w, statusFor(gerr.Kind), apiError{
		Error: gerr.Error(),
		Kind:  gerr.Kind.String(),
		Hint:  gerr.UserMessage(),
	})
}

func statusFor(kind gemini.Kind) int {
	switch kind {
	case gemini.KindRateLimited:
		return http.StatusTooManyRequests
	case gemini.KindUnavailable:
		return http.StatusServiceUnavailable
	case gemini.KindAuth, gemini.KindMalformedResponse:
		return http.StatusBadGateway
	case gemini.KindInvalidInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) decodePatch(w http.ResponseWriter, r *http.Request, optional bool) (product.Patch, bool) {
	var p product.Patch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return p, true
		}
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body: " + err.Error()})
		return p, false
	}
	return p, true
}

func writeValidation(w http.ResponseWriter, err error) {
	var verr *product.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: verr.Message, Field: verr.Field})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("http", "method", r.Method, "path", r.URL.Path, "dur_ms", time.Since(start).Milliseconds())
	})
}
