package summary

import (
	"errors"
	"net/http"

	"vidbrief/internal/handler/http/auth"
	"vidbrief/internal/handler/http/pathutil"
	"vidbrief/internal/handler/http/respond"
	sumUC "vidbrief/internal/usecase/summary"
)

type GetHandler struct{ Svc *sumUC.Service }

// ServeHTTP 要約取得
// @Summary      要約取得
// @Description  自分の要約を1件取得します。他人のレコードは存在しないものとして扱われます
// @Tags         summary
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "要約ID"
// @Success      200 {object} DTO "要約"
// @Failure      400 {string} string "IDが不正"
// @Failure      401 {string} string "認証が必要"
// @Failure      404 {string} string "見つからない"
// @Router       /api/summary/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	id, err := pathutil.ExtractID(r.URL.Path, "/api/summary/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := h.Svc.Get(r.Context(), id, accountID)
	if err != nil {
		respondSummaryError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(*view))
}

// respondSummaryError maps usecase errors shared by the single-record
// read paths. Absent and foreign records are indistinguishable: both 404.
func respondSummaryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sumUC.ErrInvalidSummaryID):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, sumUC.ErrSummaryNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
