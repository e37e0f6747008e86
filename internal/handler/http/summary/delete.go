package summary

import (
	"errors"
	"net/http"

	"vidbrief/internal/handler/http/auth"
	"vidbrief/internal/handler/http/pathutil"
	"vidbrief/internal/handler/http/respond"
	sumUC "vidbrief/internal/usecase/summary"
)

type DeleteHandler struct{ Svc *sumUC.Service }

// ServeHTTP 要約削除
// @Summary      要約削除
// @Description  自分の要約を削除します。他人のレコードは404になります
// @Tags         summary
// @Security     BearerAuth
// @Param        id path int true "要約ID"
// @Success      204 "No Content"
// @Failure      400 {string} string "IDが不正"
// @Failure      401 {string} string "認証が必要"
// @Failure      404 {string} string "見つからない"
// @Router       /api/summary/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Svc.Delete(r.Context(), id, accountID); err != nil {
		respondSummaryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
