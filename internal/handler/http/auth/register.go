package auth

import (
	"net/http"
	"time"

	httphandler "vidbrief/internal/handler/http"
	acctUC "vidbrief/internal/usecase/account"
)

// Register registers the auth HTTP handlers with the given mux.
// Signup, signin, and refresh are public but rate limited to slow down
// brute-force attempts; /api/auth/me requires a valid bearer token.
func Register(mux *http.ServeMux, svc *acctUC.Service, verifier Verifier) {
	// 10 requests per minute per IP on credential endpoints
	limiter := httphandler.NewRateLimiter(10, time.Minute)
	authz := Authz(verifier)

	mux.Handle("POST /api/auth/signup", limiter.Limit(SignupHandler{Svc: svc}))
	mux.Handle("POST /api/auth/signin", limiter.Limit(SigninHandler{Svc: svc}))
	mux.Handle("POST /api/auth/refresh", limiter.Limit(RefreshHandler{Svc: svc}))
	mux.Handle("GET /api/auth/me", authz(MeHandler{Svc: svc}))
}
