package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedBody string
	}{
		{
			name:         "success with map",
			code:         http.StatusOK,
			data:         map[string]string{"message": "success"},
			expectedBody: `{"message":"success"}`,
		},
		{
			name:         "success with struct",
			code:         http.StatusCreated,
			data:         struct{ ID int }{ID: 123},
			expectedBody: `{"ID":123}`,
		},
		{
			name:         "nil body",
			code:         http.StatusNoContent,
			data:         nil,
			expectedBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.expectedBody {
				t.Errorf("body = %q, want %q", got, tt.expectedBody)
			}
		})
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, errors.New("bad input"))

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["error"] != "bad input" {
		t.Errorf("error = %q, want %q", body["error"], "bad input")
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		err         error
		wantMessage string
	}{
		{
			name:        "validation error passes through",
			code:        http.StatusBadRequest,
			err:         errors.New("email is required"),
			wantMessage: "email is required",
		},
		{
			name:        "not found passes through",
			code:        http.StatusNotFound,
			err:         errors.New("summary not found"),
			wantMessage: "summary not found",
		},
		{
			name:        "credit error passes through",
			code:        http.StatusForbidden,
			err:         errors.New("insufficient credits"),
			wantMessage: "insufficient credits",
		},
		{
			name:        "database error is masked",
			code:        http.StatusInternalServerError,
			err:         errors.New("pq: connection refused host=db.internal"),
			wantMessage: "internal server error",
		},
		{
			name:        "safe-looking message on 500 is still masked",
			code:        http.StatusInternalServerError,
			err:         errors.New("record not found in shard 3"),
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body["error"] != tt.wantMessage {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMessage)
			}
		})
	}
}

func TestSafeError_AppError(t *testing.T) {
	w := httptest.NewRecorder()
	appErr := NewAppError(http.StatusForbidden, "no credits remaining",
		errors.New("balance guard failed for account 42"))

	SafeError(w, http.StatusInternalServerError, appErr)

	// The AppError's own code and user message win over the passed code.
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["error"] != "no credits remaining" {
		t.Errorf("error = %q, want user message", body["error"])
	}
}

func TestSafeError_NilError(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusInternalServerError, nil)

	if w.Body.Len() != 0 {
		t.Errorf("expected no body for nil error, got %q", w.Body.String())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("inner failure")
	appErr := NewAppError(http.StatusBadGateway, "upstream unavailable", inner)

	if !errors.Is(appErr, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
	if appErr.Error() != "inner failure" {
		t.Errorf("Error() = %q, want inner message", appErr.Error())
	}

	noInner := NewAppError(http.StatusBadRequest, "user message", nil)
	if noInner.Error() != "user message" {
		t.Errorf("Error() = %q, want user message", noInner.Error())
	}
}
