package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/digistore/internal/model"
)

// TestWriteErrorResponse_WritesUnifiedFormat は統一エラーフォーマットでレスポンスが書き込まれることを検証する。
func TestWriteErrorResponse_WritesUnifiedFormat(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("価格が負です"))

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Code != model.ErrCodeValidationFailed {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeValidationFailed)
	}
	if body.Category != "validation" {
		t.Errorf("category = %q, want %q", body.Category, "validation")
	}
	if body.Message == "" || body.Action == "" {
		t.Errorf("message and action must be set, got %+v", body)
	}
}

// TestWriteInternalServerError は内部エラーが一般的なメッセージで返ることを検証する。
func TestWriteInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteInternalServerError(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Code != model.ErrCodeInternal {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInternal)
	}
}

// TestHTTPStatusForCode はエラーコードとHTTPステータスの対応を検証する。
func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{model.ErrCodeDuplicateEmail, http.StatusBadRequest},
		{model.ErrCodeValidationFailed, http.StatusBadRequest},
		{model.ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{model.ErrCodeUnauthenticated, http.StatusUnauthorized},
		{model.ErrCodeForbidden, http.StatusForbidden},
		{model.ErrCodeProductNotFound, http.StatusNotFound},
		{model.ErrCodeOrderNotFound, http.StatusNotFound},
		{model.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{model.ErrCodeDependencyUnavailable, http.StatusServiceUnavailable},
		{model.ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := HTTPStatusForCode(tt.code); got != tt.want {
				t.Errorf("HTTPStatusForCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

// TestWriteError_ClassifiesErrors はラップされたエラーも含めて正しく分類されることを検証する。
func TestWriteError_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "APIErrorはそのステータスで返る",
			err:      model.NewForbiddenError(),
			wantCode: http.StatusForbidden,
			wantBody: model.ErrCodeForbidden,
		},
		{
			name:     "ラップされたAPIErrorも分類される",
			err:      fmt.Errorf("handler: %w", model.NewProductNotFoundError("p1")),
			wantCode: http.StatusNotFound,
			wantBody: model.ErrCodeProductNotFound,
		},
		{
			name:     "データストア障害は503",
			err:      model.WrapDependencyError("find user", errors.New("connection refused")),
			wantCode: http.StatusServiceUnavailable,
			wantBody: model.ErrCodeDependencyUnavailable,
		},
		{
			name:     "未分類のエラーは500",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: model.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			WriteError(w, r, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			var body ErrorResponseBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response body: %v", err)
			}
			if body.Code != tt.wantBody {
				t.Errorf("code = %q, want %q", body.Code, tt.wantBody)
			}
		})
	}
}

// TestWriteError_DoesNotLeakInternalDetails は内部エラーの詳細がレスポンスに含まれないことを検証する。
func TestWriteError_DoesNotLeakInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	WriteError(w, r, model.WrapDependencyError("find user", errors.New("password authentication failed for user \"digistore\"")))

	if got := w.Body.String(); strings.Contains(got, "password authentication") {
		t.Errorf("response leaks internal details: %s", got)
	}
}
