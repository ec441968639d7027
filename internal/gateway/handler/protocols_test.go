package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"riskprotocol/internal/gateway/service/form"
	"riskprotocol/internal/llm"
	"riskprotocol/internal/protocol"
)

type stubDrive struct {
	authenticated bool
	err           error
	uploads       int
}

func (s *stubDrive) IsAuthenticated() bool { return s.authenticated }
func (s *stubDrive) SignIn() error         { s.authenticated = true; return nil }
func (s *stubDrive) SignOut()              { s.authenticated = false }
func (s *stubDrive) Upload(ctx context.Context, rec *protocol.Record) error {
	if s.err != nil {
		return s.err
	}
	s.uploads++
	return nil
}

func newTestHandler(t *testing.T) (*ProtocolHandler, *form.Service, *stubDrive) {
	t.Helper()
	store := &stubDrive{}
	svc := form.New(llm.NewFakeClient(), store, "5547988802260")
	return NewProtocolHandler(svc), svc, store
}

func submitReport(t *testing.T, h *ProtocolHandler, report string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"report": report})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/protocols", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.HandleProtocols(rr, req)
	return rr
}

func TestHandleProtocols_Submit(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rr := submitReport(t, h, "cheiro de fumaça no almoxarifado")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var rec protocol.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if !rec.Category.Valid() || !rec.Level.Valid() {
		t.Fatalf("record enums out of range: %+v", rec)
	}
	if rec.InformalReport != "cheiro de fumaça no almoxarifado" {
		t.Fatalf("informal report not kept verbatim: %q", rec.InformalReport)
	}
}

func TestHandleProtocols_EmptyReport(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	rr := submitReport(t, h, "   ")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if snap := svc.Snapshot(); len(snap.Records) != 0 {
		t.Fatalf("validation error must not change the list")
	}
}

func TestHandleProtocols_List(t *testing.T) {
	h, _, _ := newTestHandler(t)
	submitReport(t, h, "relato um")
	submitReport(t, h, "relato dois")

	req := httptest.NewRequest(http.MethodGet, "/api/protocols", nil)
	rr := httptest.NewRecorder()
	h.HandleProtocols(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var snap form.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(snap.Records))
	}
	if snap.Records[0].InformalReport != "relato dois" {
		t.Fatalf("list must be newest-first, got %q", snap.Records[0].InformalReport)
	}
}

func TestHandleProtocol_Delete(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	submitReport(t, h, "relato")
	id := svc.Snapshot().Records[0].ID

	req := httptest.NewRequest(http.MethodDelete, "/api/protocols/"+id, nil)
	rr := httptest.NewRecorder()
	h.HandleProtocol(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if len(svc.Snapshot().Records) != 0 {
		t.Fatalf("record should be gone")
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/protocols/"+id, nil)
	rr = httptest.NewRecorder()
	h.HandleProtocol(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rr.Code)
	}
}

func TestHandleProtocol_Text(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	submitReport(t, h, "relato")
	id := svc.Snapshot().Records[0].ID

	req := httptest.NewRequest(http.MethodGet, "/api/protocols/"+id+"/text", nil)
	rr := httptest.NewRecorder()
	h.HandleProtocol(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "*** PROTOCOLO DE RISCO ***") {
		t.Fatalf("missing protocol header:\n%s", rr.Body.String())
	}
}

func TestHandleProtocol_Summary(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	submitReport(t, h, "cheiro de fumaça no almoxarifado")
	id := svc.Snapshot().Records[0].ID

	req := httptest.NewRequest(http.MethodGet, "/api/protocols/"+id+"/summary", nil)
	rr := httptest.NewRecorder()
	h.HandleProtocol(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var out struct {
		Description    string `json:"description"`
		CriticalAction string `json:"criticalAction"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode summary payload: %v", err)
	}
	if !strings.Contains(out.CriticalAction, "<strong>") {
		t.Fatalf("emphasis must render as a bold span: %q", out.CriticalAction)
	}
	if strings.Contains(out.Description, "**") || strings.Contains(out.CriticalAction, "**") {
		t.Fatalf("raw emphasis markup must not leak: %+v", out)
	}
	if strings.Contains(rr.Body.String(), `\u003c`) {
		t.Fatalf("spans must not be escaped on the wire: %s", rr.Body.String())
	}
}

func TestHandleProtocol_Share(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	submitReport(t, h, "relato")
	id := svc.Snapshot().Records[0].ID

	req := httptest.NewRequest(http.MethodGet, "/api/protocols/"+id+"/share", nil)
	rr := httptest.NewRecorder()
	h.HandleProtocol(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var out struct {
		Message string `json:"message"`
		URL     string `json:"url"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode share payload: %v", err)
	}
	if !strings.HasPrefix(out.URL, "https://wa.me/5547988802260?text=") {
		t.Fatalf("unexpected share url %q", out.URL)
	}
	if !strings.Contains(out.Message, "*ALERTA DE SEGURANÇA*") {
		t.Fatalf("unexpected share message %q", out.Message)
	}
}

func TestHandleProtocol_Export(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	submitReport(t, h, "relato")
	id := svc.Snapshot().Records[0].ID

	req := httptest.NewRequest(http.MethodGet, "/api/protocols/"+id+"/export", nil)
	rr := httptest.NewRecorder()
	h.HandleProtocol(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF document")
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "Protocolo_") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
}

func TestHandleProtocol_UploadFailureIsNonBlocking(t *testing.T) {
	h, svc, store := newTestHandler(t)
	submitReport(t, h, "relato")
	id := svc.Snapshot().Records[0].ID
	store.err = errors.New("remote unavailable")

	req := httptest.NewRequest(http.MethodPost, "/api/protocols/"+id+"/upload", nil)
	rr := httptest.NewRecorder()
	h.HandleProtocol(rr, req)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if len(svc.Snapshot().Records) != 1 {
		t.Fatalf("upload failure must not affect the record list")
	}

	store.err = nil
	rr = httptest.NewRecorder()
	h.HandleProtocol(rr, httptest.NewRequest(http.MethodPost, "/api/protocols/"+id+"/upload", nil))
	if rr.Code != http.StatusOK || store.uploads != 1 {
		t.Fatalf("expected successful upload, code %d uploads %d", rr.Code, store.uploads)
	}
}

func TestHandleDashboard(t *testing.T) {
	h, _, _ := newTestHandler(t)
	submitReport(t, h, "cheiro de fumaça no corredor")
	submitReport(t, h, "porta destrancada")

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rr := httptest.NewRecorder()
	h.HandleDashboard(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var out struct {
		Total  int `json:"total"`
		Levels []struct {
			Count      int    `json:"count"`
			Percentage string `json:"percentage"`
		} `json:"levels"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if out.Total != 2 || len(out.Levels) != 3 {
		t.Fatalf("unexpected summary: %+v", out)
	}
}

func TestHandleProtocols_MethodNotAllowed(t *testing.T) {
	h, _, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPut, "/api/protocols", nil)
	rr := httptest.NewRecorder()
	h.HandleProtocols(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}
