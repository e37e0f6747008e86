package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"vidbrief/internal/handler/http/respond"
	acctUC "vidbrief/internal/usecase/account"
)

type SigninHandler struct{ Svc *acctUC.Service }

// ServeHTTP サインイン
// @Summary      サインイン
// @Description  メールアドレスとパスワードで認証し、トークンペアを発行します
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body signinRequest true "ログイン情報"
// @Success      200 {object} tokenResponse "トークンとプロフィール"
// @Failure      400 {string} string "リクエストが不正"
// @Failure      401 {string} string "認証失敗"
// @Router       /api/auth/signin [post]
func (h SigninHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("email and password are required"))
		return
	}

	res, err := h.Svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, acctUC.ErrInvalidCredentials) {
			respond.SafeError(w, http.StatusUnauthorized, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTokenResponse(res))
}
