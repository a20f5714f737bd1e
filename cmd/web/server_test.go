package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueprint-studio/internal/brief"
	"blueprint-studio/internal/gemini"
	"blueprint-studio/internal/generation"
	"blueprint-studio/internal/product"
	"blueprint-studio/internal/session"
)

type stubGenerator struct {
	calls   int
	out     []brief.Variant
	err     error
	started chan struct{}
	block   chan struct{}
}

func (s *stubGenerator) Compile(cfg product.Configuration) brief.Brief {
	return brief.Compile(cfg)
}

func (s *stubGenerator) Generate(_ context.Context, cfg product.Configuration) (generation.Result, error) {
	if err := cfg.RequireName(); err != nil {
		return generation.Result{}, err
	}
	s.calls++
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return generation.Result{}, s.err
	}
	return generation.Result{Brief: brief.Compile(cfg), Variants: s.out}, nil
}

func newTestServer(t *testing.T, gen *stubGenerator, perMinute int) (*httptest.Server, *session.Store) {
	t.Helper()
	store := session.NewStore(session.Options{})
	s := newServer(serverOptions{Generator: gen, Sessions: store, GeneratePerMinute: perMinute})
	srv := httptest.NewServer(s.routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("content-type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func createSession(t *testing.T, srv *httptest.Server, body string) string {
	t.Helper()
	resp, out := do(t, http.MethodPost, srv.URL+"/api/sessions", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, out)
	return out["id"].(string)
}

func sixVariants() []brief.Variant {
	out := make([]brief.Variant, 6)
	for i := range out {
		out[i] = brief.Variant{ID: string(rune('a' + i)), Title: "v"}
	}
	return out
}

func TestCreateAndGet(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, 10)

	id := createSession(t, srv, "")
	resp, out := do(t, http.MethodGet, srv.URL+"/api/sessions/"+id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, out["id"])
	assert.Equal(t, float64(6), out["variantCount"])

	cfg := out["config"].(map[string]any)
	assert.Equal(t, "Beauty & Personal Care", cfg["category"])
	assert.Equal(t, []any{}, cfg["touched"])

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateWithPatch(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, 10)

	resp, out := do(t, http.MethodPost, srv.URL+"/api/sessions", `{"name": "Cold Brew", "category": "Beverages & Spirits"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cfg := out["config"].(map[string]any)
	assert.Equal(t, "Cold Brew", cfg["name"])
	assert.Equal(t, "Liquid", cfg["physicalForm"])
	assert.Equal(t, "Dramatic Rim Lighting", cfg["lightingStyle"])
	assert.Equal(t, true, cfg["advancedEffects"].(map[string]any)["liquidDripEnabled"])
}

func TestPatchKeepsExplicitChoices(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, 10)
	id := createSession(t, srv, "")

	resp, _ := do(t, http.MethodPatch, srv.URL+"/api/sessions/"+id+"/config", `{"physicalForm": "Powder"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out := do(t, http.MethodPatch, srv.URL+"/api/sessions/"+id+"/config", `{"category": "Beverages & Spirits"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cfg := out["config"].(map[string]any)
	assert.Equal(t, "Powder", cfg["physicalForm"])
	assert.Equal(t, "Dramatic Rim Lighting", cfg["lightingStyle"])
}

func TestPatchValidation(t *testing.T) {
	srv, store := newTestServer(t, &stubGenerator{}, 10)
	id := createSession(t, srv, "")

	resp, out := do(t, http.MethodPatch, srv.URL+"/api/sessions/"+id+"/config", `{"creativeLevel": 42}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "creativeLevel", out["field"])

	sess, _ := store.Get(id)
	assert.NotEqual(t, 42, sess.Config.CreativeLevel)
	assert.False(t, sess.Config.Touched.Has(product.FieldCreativeLevel))

	resp, _ = do(t, http.MethodPatch, srv.URL+"/api/sessions/"+id+"/config", `{"bogus": true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPatch, srv.URL+"/api/sessions/missing/config", `{"name": "x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBrief(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, 10)
	id := createSession(t, srv, `{"name": "Soda", "isPack": true, "packSize": "Pack of 6"}`)

	resp, out := do(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/brief", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(6), out["variantCount"])
	assert.Contains(t, out["systemInstruction"], "Pack of 6")
	assert.NotContains(t, out["systemInstruction"], "Interaction Blueprints")
	assert.NotNil(t, out["schema"])
}

func TestGenerate(t *testing.T) {
	gen := &stubGenerator{out: sixVariants()}
	srv, store := newTestServer(t, gen, 10)
	id := createSession(t, srv, `{"name": "Soda"}`)

	resp, out := do(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/generate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(6), out["variantCount"])
	assert.NotContains(t, out, "warning")

	sess, _ := store.Get(id)
	assert.Len(t, sess.Variants, 6)
}

func TestGenerateBlankName(t *testing.T) {
	gen := &stubGenerator{}
	srv, _ := newTestServer(t, gen, 10)
	id := createSession(t, srv, "")

	resp, out := do(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/generate", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "name", out["field"])
	assert.Zero(t, gen.calls)
}

func TestGenerateErrorKinds(t *testing.T) {
	tests := []struct {
		kind gemini.Kind
		want int
	}{
		{gemini.KindRateLimited, http.StatusTooManyRequests},
		{gemini.KindAuth, http.StatusBadGateway},
		{gemini.KindUnavailable, http.StatusServiceUnavailable},
		{gemini.KindMalformedResponse, http.StatusBadGateway},
		{gemini.KindInvalidInput, http.StatusUnprocessableEntity},
		{gemini.KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			gen := &stubGenerator{err: &gemini.Error{Kind: tt.kind, Message: "boom"}}
			srv, store := newTestServer(t, gen, 10)
			id := createSession(t, srv, `{"name": "Soda"}`)
			store.SetResults(id, sixVariants())

			resp, out := do(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/generate", "")
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, tt.kind.String(), out["kind"])
			assert.NotEmpty(t, out["hint"])

			sess, _ := store.Get(id)
			assert.Len(t, sess.Variants, 6)
		})
	}
}

func TestGenerateLocalRateLimit(t *testing.T) {
	gen := &stubGenerator{out: sixVariants()}
	srv, _ := newTestServer(t, gen, 1)
	id := createSession(t, srv, `{"name": "Soda"}`)

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/generate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out := do(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/generate", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "local_rate_limit", out["kind"])
	assert.Equal(t, 1, gen.calls)
}

func TestRejectedGenerateDoesNotSpendRateLimit(t *testing.T) {
	gen := &stubGenerator{out: sixVariants()}
	srv, store := newTestServer(t, gen, 1)
	id := createSession(t, srv, "")
	url := srv.URL + "/api/sessions/" + id + "/generate"

	resp, _ := do(t, http.MethodPost, url, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, http.MethodPatch, srv.URL+"/api/sessions/"+id+"/config", `{"name": "Soda"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	run, ok := store.Begin(id)
	require.True(t, ok)
	resp, _ = do(t, http.MethodPost, url, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	run.Release()

	resp, out := do(t, http.MethodPost, url, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, out)
}

func TestResetDuringGenerateDiscardsBatch(t *testing.T) {
	gen := &stubGenerator{out: sixVariants(), started: make(chan struct{}), block: make(chan struct{})}
	srv, store := newTestServer(t, gen, 10)
	id := createSession(t, srv, `{"name": "Soda"}`)

	type result struct {
		status int
		body   map[string]any
	}
	done := make(chan result, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/generate", "application/json", nil)
		if err != nil {
			done <- result{}
			return
		}
		defer resp.Body.Close()
		var out map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&out)
		done <- result{resp.StatusCode, out}
	}()

	<-gen.started
	resp, _ := do(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	close(gen.block)

	res := <-done
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Contains(t, res.body["error"], "reset")

	sess, _ := store.Get(id)
	assert.Empty(t, sess.Variants)
}

func TestGenerateConflict(t *testing.T) {
	gen := &stubGenerator{out: sixVariants()}
	srv, store := newTestServer(t, gen, 10)
	id := createSession(t, srv, `{"name": "Soda"}`)

	run, ok := store.Begin(id)
	require.True(t, ok)
	defer run.Release()

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/generate", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Zero(t, gen.calls)
}

func TestResetAndReference(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, 10)
	id := createSession(t, srv, `{"name": "Soda"}`)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "bottle.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/reference", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["hasReferenceImage"])
	assert.Nil(t, out["config"].(map[string]any)["referenceImage"])

	resp, out = do(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, out["hasReferenceImage"])
	assert.Equal(t, "", out["config"].(map[string]any)["name"])
}

func TestCatalog(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{}, 10)
	resp, out := do(t, http.MethodGet, srv.URL+"/api/catalog", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, out["categories"], 28)
	intel := out["intelligence"].(map[string]any)
	require.Contains(t, intel, "Beverages & Spirits")

	bev := intel["Beverages & Spirits"].(map[string]any)
	assert.Equal(t, "Liquid", bev["physicalForm"])
	assert.Equal(t, "Dramatic Rim Lighting", bev["lightingStyle"])
	assert.Equal(t, true, bev["liquidDripAppropriate"])
	assert.NotContains(t, bev, "PhysicalForm")
}
