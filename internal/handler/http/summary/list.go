package summary

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vidbrief/internal/common/pagination"
	"vidbrief/internal/handler/http/auth"
	"vidbrief/internal/handler/http/requestid"
	"vidbrief/internal/handler/http/respond"
	"vidbrief/internal/observability/logging"
	sumUC "vidbrief/internal/usecase/summary"
)

type ListHandler struct {
	Svc           *sumUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP 要約一覧取得
// @Summary      要約一覧取得（ページネーション対応）
// @Description  認証済みアカウントの要約を新しい順に取得します
// @Tags         summary
// @Security     BearerAuth
// @Produce      json
// @Param        page   query    int  false  "ページ番号 (1-based)" default(1) minimum(1)
// @Param        limit  query    int  false  "1ページあたりの件数" default(20) minimum(1) maximum(100)
// @Success      200 {object} listResponse "ページネーション付き要約一覧"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      401 {string} string "認証が必要"
// @Router       /api/summary [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	accountID, ok := auth.AccountIDFromContext(ctx)
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("Invalid pagination parameters",
			"error", err.Error(),
			"request_id", reqID)
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	logger.Info("Paginated summary list request",
		"account_id", accountID,
		"page", params.Page,
		"limit", params.Limit,
		"request_id", reqID)

	result, err := h.Svc.List(ctx, accountID, params)
	if err != nil {
		// Read paths degrade instead of failing: the client gets an
		// empty page flagged success=false rather than a 500.
		logger.Error("Failed to list summaries, degrading to empty page",
			"error", err.Error(),
			"account_id", accountID,
			"page", params.Page,
			"limit", params.Limit,
			"request_id", reqID)
		pagination.RecordError("database")
		respond.JSON(w, http.StatusOK, listResponse{
			Success:   false,
			Summaries: []DTO{},
			Page:      params.Page,
			Limit:     params.Limit,
		})
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, item := range result.Data {
		dtos = append(dtos, toDTO(item))
	}

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.UpdateTotalCount(result.Pagination.Total)

	logger.Info("Paginated response",
		"page", params.Page,
		"limit", params.Limit,
		"returned_count", len(dtos),
		"duration_ms", duration.Milliseconds(),
		"status", http.StatusOK,
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, listResponse{
		Success:   true,
		Summaries: dtos,
		Total:     result.Pagination.Total,
		Page:      result.Pagination.Page,
		Limit:     result.Pagination.Limit,
	})
}
