package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/oukeidos/maintrans/internal/apperrors"
	"google.golang.org/api/googleapi"
)

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      apperrors.Kind
		retryable bool
	}{
		{"bad request", &googleapi.Error{Code: 400}, apperrors.KindBadRequest, false},
		{"unauthenticated", &googleapi.Error{Code: 401}, apperrors.KindAuth, false},
		{"permission denied", &googleapi.Error{Code: 403}, apperrors.KindAuth, false},
		{"model not found", &googleapi.Error{Code: 404}, apperrors.KindBadRequest, false},
		{"request timeout", &googleapi.Error{Code: 408}, apperrors.KindTransient, true},
		{"rate limited", &googleapi.Error{Code: 429}, apperrors.KindRateLimit, true},
		{"internal", &googleapi.Error{Code: 500}, apperrors.KindTransient, true},
		{"unavailable", &googleapi.Error{Code: 503}, apperrors.KindTransient, true},
		{"wrapped api error", fmt.Errorf("stream: %w", &googleapi.Error{Code: 429}), apperrors.KindRateLimit, true},
		{"call deadline", context.DeadlineExceeded, apperrors.KindTransient, true},
		{"network", errors.New("dial tcp: connection reset"), apperrors.KindTransient, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyGeminiError(tt.err)
			kind, ok := apperrors.KindOf(err)
			if !ok || kind != tt.kind {
				t.Fatalf("kind = %q (%v), want %q", kind, ok, tt.kind)
			}
			if apperrors.IsRetryable(err) != tt.retryable {
				t.Fatalf("retryable = %v, want %v", !tt.retryable, tt.retryable)
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("cause lost: %v", err)
			}
		})
	}
}

func TestClassifyGeminiError_Nil(t *testing.T) {
	if classifyGeminiError(nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
}

func TestClassifyGeminiError_CancelStaysUnclassified(t *testing.T) {
	err := classifyGeminiError(context.Canceled)
	if _, ok := apperrors.KindOf(err); ok {
		t.Fatalf("cancellation should not be classified, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation to stay matchable")
	}
}

func TestClassifyGeminiError_HidesRecordText(t *testing.T) {
	err := classifyGeminiError(errors.New("Guasto al pantografo, vettura 4"))
	if strings.Contains(err.Error(), "pantografo") {
		t.Fatalf("record text leaked into the user message: %q", err.Error())
	}
}
