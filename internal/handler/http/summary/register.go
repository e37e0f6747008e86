package summary

import (
	"log/slog"
	"net/http"

	"vidbrief/internal/common/pagination"
	"vidbrief/internal/handler/http/auth"
	sumUC "vidbrief/internal/usecase/summary"
)

// Register registers all summary HTTP handlers with the given mux.
// Every route requires bearer authentication; the authenticated account
// scopes all reads and writes.
func Register(mux *http.ServeMux, svc *sumUC.Service, verifier auth.Verifier, paginationCfg pagination.Config, logger *slog.Logger) {
	authz := auth.Authz(verifier)

	mux.Handle("POST /api/summary/generate", authz(GenerateHandler{Svc: svc}))
	mux.Handle("POST /api/summary/save", authz(SaveHandler{Svc: svc}))
	mux.Handle("GET /api/summary", authz(ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	}))
	mux.Handle("GET /api/summary/{id}", authz(GetHandler{Svc: svc}))
	mux.Handle("GET /api/summary/{id}/transcript", authz(TranscriptHandler{Svc: svc}))
	mux.Handle("DELETE /api/summary/{id}", authz(DeleteHandler{Svc: svc}))
}
