package handler

import (
	"log"
	"net/http"

	"riskprotocol/internal/gateway/repository/drive"
)

// DriveHandler controls the cloud-store session capability.
type DriveHandler struct {
	store drive.Store
}

func NewDriveHandler(store drive.Store) *DriveHandler {
	return &DriveHandler{store: store}
}

func (h *DriveHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := h.store.SignIn(); err != nil {
		log.Printf("drive sign-in: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true})
}

func (h *DriveHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.store.SignOut()
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
}

func (h *DriveHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": h.store.IsAuthenticated()})
}
