//go:build !integration

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestWith_AttachesContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithTraceID(context.Background(), "t-1")
	ctx = WithUserID(ctx, "default_user")
	ctx = WithRoadmapID(ctx, "roadmap_x")

	With(ctx, &base).Info().Msg("hello")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	for k, want := range map[string]string{"trace_id": "t-1", "user_id": "default_user", "roadmap_id": "roadmap_x"} {
		if got[k] != want {
			t.Errorf("%s: expected %q, got %v", k, want, got[k])
		}
	}
}

func TestWith_NilBase(t *testing.T) {
	l := With(context.Background(), nil)
	if l == nil {
		t.Fatal("expected a usable logger")
	}
	l.Info().Msg("discarded")
}

func TestRedact(t *testing.T) {
	testCases := []struct {
		in   string
		dev  bool
		want string
	}{
		{"short", false, "***"},
		{"a longer message", false, "a lo...ge"},
		{"a longer message", true, "a longer message"},
	}
	for _, tc := range testCases {
		if got := Redact(tc.in, tc.dev); got != tc.want {
			t.Errorf("Redact(%q, %v) = %q, want %q", tc.in, tc.dev, got, tc.want)
		}
	}
}
