package summary

import (
	"encoding/json"
	"errors"
	"net/http"

	"vidbrief/internal/domain/entity"
	"vidbrief/internal/handler/http/auth"
	"vidbrief/internal/handler/http/respond"
	sumUC "vidbrief/internal/usecase/summary"
)

type SaveHandler struct{ Svc *sumUC.Service }

// ServeHTTP 要約保存
// @Summary      要約保存
// @Description  クライアント側で構造化済みの要約をそのまま保存します（クレジット消費なし）
// @Tags         summary
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body saveRequest true "構造化済み要約"
// @Success      201 {object} saveResponse "保存結果"
// @Failure      400 {string} string "videoId または fullSummary が不足"
// @Failure      401 {string} string "認証が必要"
// @Router       /api/summary/save [post]
func (h SaveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.Svc.Save(r.Context(), sumUC.SaveInput{
		AccountID:   accountID,
		VideoID:     req.VideoID,
		Title:       req.Title,
		KeyPoints:   req.KeyPoints,
		FullSummary: req.FullSummary,
		SourceURL:   req.SourceURL,
		Transcript:  req.Transcript,
	})
	if err != nil {
		var vErr *entity.ValidationError
		if errors.As(err, &vErr) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusCreated
	if res.AlreadySaved {
		status = http.StatusOK
	}
	respond.JSON(w, status, saveResponse{
		ID:           res.ID,
		CreatedAt:    res.CreatedAt,
		AlreadySaved: res.AlreadySaved,
	})
}
