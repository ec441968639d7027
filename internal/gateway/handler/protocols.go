package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"riskprotocol/internal/dashboard"
	"riskprotocol/internal/gateway/service/form"
	"riskprotocol/internal/llm"
)

// ProtocolHandler serves the record list and the per-record actions.
type ProtocolHandler struct {
	svc *form.Service
}

func NewProtocolHandler(svc *form.Service) *ProtocolHandler {
	return &ProtocolHandler{svc: svc}
}

// HandleProtocols serves /api/protocols: POST submits a report, GET
// returns the current snapshot.
func (h *ProtocolHandler) HandleProtocols(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.svc.Snapshot())
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *ProtocolHandler) submit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Report string `json:"report"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	rec, err := h.svc.Submit(r.Context(), in.Report)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, rec)
	case errors.Is(err, form.ErrEmptyReport):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, form.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, llm.ErrGeneration):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// HandleProtocol serves /api/protocols/{id} and its sub-actions
// (text, summary, share, export, upload).
func (h *ProtocolHandler) HandleProtocol(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/protocols/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "protocol id is required")
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.delete(w, id)
	case "text":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.text(w, id)
	case "summary":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.summary(w, id)
	case "share":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.share(w, id)
	case "export":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.export(w, id)
	case "upload":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.upload(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *ProtocolHandler) delete(w http.ResponseWriter, id string) {
	if err := h.svc.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProtocolHandler) text(w http.ResponseWriter, id string) {
	text, err := h.svc.ClipboardText(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (h *ProtocolHandler) summary(w http.ResponseWriter, id string) {
	description, action, err := h.svc.Summary(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"description":    description,
		"criticalAction": action,
	})
}

func (h *ProtocolHandler) share(w http.ResponseWriter, id string) {
	message, link, err := h.svc.Share(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": message,
		"url":     link,
	})
}

func (h *ProtocolHandler) export(w http.ResponseWriter, id string) {
	data, name, err := h.svc.Export(id)
	if err != nil {
		if errors.Is(err, form.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		// Export failures are logged and the download silently does not
		// complete; nothing else changes.
		log.Printf("export protocol %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (h *ProtocolHandler) upload(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.Upload(r.Context(), id); err != nil {
		if errors.Is(err, form.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		// Non-blocking: the record stays in the list regardless.
		log.Printf("upload protocol %s: %v", id, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleDashboard serves /api/dashboard: severity counts, percentages and
// the ring-chart partition, recomputed from the current list.
func (h *ProtocolHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, dashboard.Summarize(snap.Records))
}
