package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"vidbrief/internal/handler/http/respond"
	acctUC "vidbrief/internal/usecase/account"
)

type RefreshHandler struct{ Svc *acctUC.Service }

// ServeHTTP トークン更新
// @Summary      トークン更新
// @Description  リフレッシュトークンを使い回転させた新しいトークンペアを発行します
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body refreshRequest true "リフレッシュトークン"
// @Success      200 {object} tokenResponse "新しいトークンペア"
// @Failure      400 {string} string "リクエストが不正"
// @Failure      401 {string} string "無効なリフレッシュトークン"
// @Router       /api/auth/refresh [post]
func (h RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.Svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, acctUC.ErrInvalidRefreshToken) {
			respond.SafeError(w, http.StatusUnauthorized, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTokenResponse(res))
}
