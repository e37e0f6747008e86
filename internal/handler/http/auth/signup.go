package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"vidbrief/internal/domain/entity"
	"vidbrief/internal/handler/http/respond"
	acctUC "vidbrief/internal/usecase/account"
)

type SignupHandler struct{ Svc *acctUC.Service }

// ServeHTTP アカウント登録
// @Summary      アカウント登録
// @Description  新しいアカウントを作成し、即座にサインインします
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body signupRequest true "登録情報"
// @Success      201 {object} tokenResponse "トークンとプロフィール"
// @Failure      400 {string} string "リクエストが不正"
// @Failure      409 {string} string "メールアドレスが登録済み"
// @Router       /api/auth/signup [post]
func (h SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("email and password are required"))
		return
	}

	res, err := h.Svc.Register(r.Context(), acctUC.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		var vErr *entity.ValidationError
		switch {
		case errors.Is(err, acctUC.ErrEmailTaken):
			respond.SafeError(w, http.StatusConflict, err)
		case errors.As(err, &vErr):
			respond.SafeError(w, http.StatusBadRequest, err)
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	respond.JSON(w, http.StatusCreated, toTokenResponse(res))
}
