package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDecodeJSONStrict(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var p payload
	if err := DecodeJSONStrict(strings.NewReader(`{"name":"stew"}`), &p); err != nil {
		t.Fatalf("DecodeJSONStrict: %v", err)
	}
	if p.Name != "stew" {
		t.Fatalf("Name = %q", p.Name)
	}

	if err := DecodeJSONStrict(strings.NewReader(`{"name":"stew","extra":1}`), &p); err == nil {
		t.Fatal("expected unknown field error")
	}
	if err := DecodeJSON(strings.NewReader(`{"name":"stew","extra":1}`), &p); err != nil {
		t.Fatalf("lenient decode rejected unknown field: %v", err)
	}
	if err := ParseJSONBytes([]byte(`{"name":"a"} {"name":"b"}`), &p); err == nil {
		t.Fatal("expected trailing data error")
	}
}

func TestErrorBody(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		debug  bool
		status int
		want   ErrorResponse
	}{
		{
			name:   "predefined",
			err:    ErrJobNotFound,
			status: http.StatusNotFound,
			want:   ErrorResponse{Code: ErrCodeJobNotFound, Message: ErrJobNotFound.Message},
		},
		{
			name:   "wrapped with details",
			err:    fmt.Errorf("reload: %w", ErrReloadFailed.WithError(errors.New("bad yaml"))),
			debug:  true,
			status: ErrReloadFailed.Status,
			want:   ErrorResponse{Code: ErrCodeReloadFailed, Message: ErrReloadFailed.Message, Details: "bad yaml"},
		},
		{
			name:   "validation",
			err:    NewValidationError("ingredients required"),
			status: http.StatusBadRequest,
			want:   ErrorResponse{Code: ErrCodeInvalidRequest, Message: "ingredients required"},
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			want:   ErrorResponse{Code: ErrCodeInternalError, Message: ErrInternalError.Message},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, got := ErrorBody(tt.err, tt.debug)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ErrorBody mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCustomErrorIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrReloadFailed.WithError(errors.New("bad yaml")))
	if !errors.Is(err, ErrReloadFailed) {
		t.Fatal("expected errors.Is to match by code")
	}
	if errors.Is(err, ErrJobNotFound) {
		t.Fatal("unexpected match")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFilterFieldsDropsSecrets(t *testing.T) {
	got := filterFields([]zap.Field{
		zap.String("redis_password", "x"),
		zap.String("job", "1"),
		zap.String("api_token", "y"),
	})
	if len(got) != 1 || got[0].Key != "job" {
		t.Fatalf("filterFields = %v", got)
	}
}

func TestLoggingBeforeInitIsSafe(t *testing.T) {
	LogInfo("noop")
	LogWarn("noop")
	LogDebug("noop")
	LogError("noop")
}
