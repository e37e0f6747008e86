package summary

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vidbrief/internal/domain/entity"
	httphandler "vidbrief/internal/handler/http"
	"vidbrief/internal/handler/http/auth"
	"vidbrief/internal/handler/http/respond"
	sumUC "vidbrief/internal/usecase/summary"
)

type GenerateHandler struct{ Svc *sumUC.Service }

// ServeHTTP 要約生成
// @Summary      要約生成
// @Description  トランスクリプトから要約を生成し、1クレジットを消費して保存します
// @Tags         summary
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body generateRequest true "トランスクリプトとメタデータ"
// @Success      200 {object} generateResponse "生成された要約"
// @Failure      400 {string} string "content または videoId が不足"
// @Failure      401 {string} string "認証が必要"
// @Failure      403 {string} string "クレジット残高なし"
// @Router       /api/summary/generate [post]
func (h GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	res, err := h.Svc.Generate(r.Context(), sumUC.GenerateInput{
		AccountID: accountID,
		Content:   req.Content,
		VideoID:   req.Metadata.VideoID,
		URL:       req.Metadata.URL,
		Title:     req.Metadata.Title,
	})
	if err != nil {
		httphandler.RecordSummaryGenerated(false)
		var vErr *entity.ValidationError
		switch {
		case errors.Is(err, sumUC.ErrInsufficientCredits):
			respond.SafeError(w, http.StatusForbidden,
				respond.NewAppError(http.StatusForbidden, "insufficient credits", err))
		case errors.As(err, &vErr):
			respond.SafeError(w, http.StatusBadRequest, err)
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	httphandler.RecordSummaryGenerated(true)
	httphandler.RecordGenerationDuration(time.Since(start))
	if !res.AlreadySaved {
		httphandler.RecordCreditDebit()
	}

	respond.JSON(w, http.StatusOK, generateResponse{
		ID:               res.ID,
		Title:            res.Title,
		KeyPoints:        res.KeyPoints,
		FullSummary:      res.FullSummary,
		SourceURL:        res.SourceURL,
		AlreadySaved:     res.AlreadySaved,
		CreditsRemaining: res.CreditsRemaining,
	})
}
