package server

import (
	"net/http"

	"riskprotocol/internal/gateway/handler"
	"riskprotocol/internal/gateway/middleware"
)

func NewMux(
	protocolHandler *handler.ProtocolHandler,
	driveHandler *handler.DriveHandler,
	eventsHandler *handler.EventsHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/protocols", protocolHandler.HandleProtocols)
	mux.HandleFunc("/api/protocols/", protocolHandler.HandleProtocol)
	mux.HandleFunc("/api/dashboard", protocolHandler.HandleDashboard)

	mux.HandleFunc("/api/drive/signin", driveHandler.HandleSignIn)
	mux.HandleFunc("/api/drive/signout", driveHandler.HandleSignOut)
	mux.HandleFunc("/api/drive/status", driveHandler.HandleStatus)

	mux.HandleFunc("/api/events", eventsHandler.HandleEvents)

	return middleware.CORS(mux)
}
