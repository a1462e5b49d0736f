package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/driver"
)

// Server wires the compiler driver behind the two HTTP endpoints
// SPEC_FULL.md §4.15/§6 name: POST /compile and GET /history. It holds no
// mutable AST state across requests — each request gets its own
// driver.Compile call and thus its own fresh tree (§5).
type Server struct {
	store            *Store
	warningsAsErrors bool
}

// New wires a Server against an already-open history store.
func New(store *Store, warningsAsErrors bool) *Server {
	return &Server{store: store, warningsAsErrors: warningsAsErrors}
}

// Routes returns the mux SPEC_FULL.md §6 describes.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/compile", s.handleCompile)
	mux.HandleFunc("/history", s.handleHistory)
	return mux
}

// handleCompile reads a {"fileName": "...", "source": "..."} body with
// gjson, compiles it, and writes back a diagnostics JSON document built
// with sjson rather than a parallel DTO struct for a seam this spec
// declares external.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	payload := gjson.ParseBytes(body)
	fileName := payload.Get("fileName").String()
	source := payload.Get("source").String()
	if fileName == "" {
		fileName = "<request>"
	}

	sessionID := uuid.New().String()
	hash := SourceHash(source)

	_, diags := driver.Compile(fileName, source, driver.Options{WarningsAsErrors: s.warningsAsErrors})

	rec := Record{
		SessionID:   sessionID,
		FileName:    fileName,
		SourceHash:  hash,
		Diagnostics: len(diags),
		CompiledAt:  time.Now(),
	}
	if err := s.store.Insert(rec); err != nil {
		http.Error(w, fmt.Sprintf("failed to record compile history: %v", err), http.StatusInternalServerError)
		return
	}

	resp := "{}"
	resp, _ = sjson.Set(resp, "sessionId", sessionID)
	resp, _ = sjson.Set(resp, "fileName", fileName)
	resp, _ = sjson.Set(resp, "diagnosticCount", len(diags))
	for i, d := range diags {
		path := fmt.Sprintf("diagnostics.%d", i)
		resp, _ = sjson.Set(resp, path+".kind", string(d.Kind))
		resp, _ = sjson.Set(resp, path+".severity", d.Severity.String())
		resp, _ = sjson.Set(resp, path+".message", d.Message)
		resp, _ = sjson.Set(resp, path+".text", d.String())
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(resp))
}

// handleHistory returns the last N recorded compiles (default 20), newest
// first, each annotated with a humanize.Time-style relative age.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		if parsed, ok := parsePositiveInt(q); ok {
			n = parsed
		}
	}
	records, err := s.store.Recent(n)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load history: %v", err), http.StatusInternalServerError)
		return
	}

	resp := "{}"
	for i, rec := range records {
		path := fmt.Sprintf("history.%d", i)
		resp, _ = sjson.Set(resp, path+".sessionId", rec.SessionID)
		resp, _ = sjson.Set(resp, path+".fileName", rec.FileName)
		resp, _ = sjson.Set(resp, path+".diagnosticCount", rec.Diagnostics)
		resp, _ = sjson.Set(resp, path+".compiledAt", rec.CompiledAt.Format(time.RFC3339))
		resp, _ = sjson.Set(resp, path+".compiledAgo", humanize.Time(rec.CompiledAt))
	}
	resp, _ = sjson.Set(resp, "count", humanize.Comma(int64(len(records))))

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(resp))
}

func parsePositiveInt(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, n > 0
}


// History exposes the store's recent records for the CLI's
// `tinderc serve --history` flag, which prints a summary without starting
// an HTTP listener.
func (s *Server) History(n int) ([]Record, error) {
	return s.store.Recent(n)
}
