package auth

import (
	"errors"
	"net/http"

	"vidbrief/internal/handler/http/respond"
	acctUC "vidbrief/internal/usecase/account"
)

type MeHandler struct{ Svc *acctUC.Service }

// ServeHTTP プロフィール取得
// @Summary      プロフィール取得
// @Description  認証済みアカウントのプロフィールと残クレジットを返します
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} userDTO "プロフィール"
// @Failure      401 {string} string "認証が必要"
// @Router       /api/auth/me [get]
func (h MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	account, err := h.Svc.Profile(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, acctUC.ErrAccountNotFound) {
			respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toUserDTO(account))
}
