package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, false)
}

func TestHandleCompileCleanProgram(t *testing.T) {
	s := newTestServer(t)
	body := `{"fileName":"t.td","source":"int add(int a, int b) {\n  return a + b\n}\n"}`
	req := httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	parsed := gjson.Parse(rec.Body.String())
	if !parsed.Get("sessionId").Exists() {
		t.Fatalf("response missing sessionId: %s", rec.Body.String())
	}
	if parsed.Get("diagnosticCount").Int() != 0 {
		t.Fatalf("expected a clean program to report zero diagnostics, got %s", rec.Body.String())
	}
}

func TestHandleCompileReportsDiagnostics(t *testing.T) {
	s := newTestServer(t)
	body := `{"fileName":"t.td","source":"int use() {\n  return missing\n}\n"}`
	req := httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	parsed := gjson.Parse(rec.Body.String())
	if parsed.Get("diagnosticCount").Int() == 0 {
		t.Fatalf("expected diagnostics for an undefined symbol, got %s", rec.Body.String())
	}
}

func TestHandleCompileRejectsWrongMethod(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/compile", nil)
	rec := httptest.NewRecorder()

	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got status %d, want 405", rec.Code)
	}
}

func TestHandleHistoryReturnsRecordedCompiles(t *testing.T) {
	s := newTestServer(t)
	body := `{"fileName":"hist.td","source":"int use() {\n  return 1\n}\n"}`
	postReq := httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(body))
	postRec := httptest.NewRecorder()
	s.Routes().ServeHTTP(postRec, postReq)
	if postRec.Code != http.StatusOK {
		t.Fatalf("setup compile failed: %d %s", postRec.Code, postRec.Body.String())
	}

	getReq := httptest.NewRequest(http.MethodGet, "/history", nil)
	getRec := httptest.NewRecorder()
	s.Routes().ServeHTTP(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", getRec.Code, getRec.Body.String())
	}
	parsed := gjson.Parse(getRec.Body.String())
	history := parsed.Get("history")
	if !history.IsArray() || len(history.Array()) == 0 {
		t.Fatalf("expected at least one history entry, got %s", getRec.Body.String())
	}
	first := history.Array()[0]
	if first.Get("fileName").String() != "hist.td" {
		t.Fatalf("got fileName %q, want hist.td", first.Get("fileName").String())
	}
}

func TestStoreLookupMissesForUnknownHash(t *testing.T) {
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	_, found, err := store.Lookup("nope.td", SourceHash("anything"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("expected no record for an unknown hash")
	}
}
