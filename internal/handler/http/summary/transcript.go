package summary

import (
	"errors"
	"net/http"

	"vidbrief/internal/handler/http/auth"
	"vidbrief/internal/handler/http/pathutil"
	"vidbrief/internal/handler/http/respond"
	sumUC "vidbrief/internal/usecase/summary"
)

type TranscriptHandler struct{ Svc *sumUC.Service }

// ServeHTTP トランスクリプト取得
// @Summary      トランスクリプト取得
// @Description  保存済みトランスクリプト、なければ要約本文から作ったプレースホルダを返します
// @Tags         summary
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "要約ID"
// @Success      200 {object} transcriptResponse "トランスクリプト"
// @Failure      400 {string} string "IDが不正"
// @Failure      401 {string} string "認証が必要"
// @Failure      404 {string} string "見つからない"
// @Router       /api/summary/{id}/transcript [get]
func (h TranscriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	id, err := pathutil.ExtractIDWithSuffix(r.URL.Path, "/api/summary/", "/transcript")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	transcript, err := h.Svc.Transcript(r.Context(), id, accountID)
	if err != nil {
		respondSummaryError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, transcriptResponse{Transcript: transcript})
}
