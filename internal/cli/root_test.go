//go:build !integration

package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-study-guide/internal/domain"
	"ai-study-guide/internal/domain/model"
)

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestPlanCmd_Text(t *testing.T) {
	out, err := executeCmd(t, "plan", "--goal", "Learn Go", "--hours", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Learn Go - Intensive Track")
	assert.Contains(t, out, "Learn Go - Balanced Track")
	assert.Contains(t, out, "Learn Go - Relaxed Track")
	assert.Contains(t, out, "10.0 h/week, about 5 months")
	assert.Contains(t, out, "1. Foundations")
}

func TestPlanCmd_JSONSingleTrack(t *testing.T) {
	out, err := executeCmd(t, "plan", "-g", "Rust", "-H", "20", "-l", "advanced", "-t", "relaxed", "--json")
	require.NoError(t, err)

	var got map[model.TrackName]model.Track
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	relaxed := got[model.TrackRelaxed]
	assert.Equal(t, 12.0, relaxed.HoursPerWeek)
	assert.Equal(t, "2 months", relaxed.Duration) // 100/12 = 8 weeks
	assert.Len(t, relaxed.Phases, 2)
}

func TestPlanCmd_Errors(t *testing.T) {
	_, err := executeCmd(t, "plan", "--goal", "Go", "--hours", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = executeCmd(t, "plan", "--goal", "Go", "--track", "warp")
	assert.ErrorContains(t, err, "unknown track")

	_, err = executeCmd(t, "plan")
	assert.Error(t, err, "goal is required")
}

func TestDurationCmd(t *testing.T) {
	testCases := []struct {
		args []string
		want string
	}{
		{[]string{"duration", "100"}, "2 weeks\n"},
		{[]string{"duration", "10", "--level", "intermediate"}, "3 months\n"},
		{[]string{"duration", "1", "-l", "beginner"}, "3 years\n"},
	}
	for _, tc := range testCases {
		out, err := executeCmd(t, tc.args...)
		require.NoError(t, err)
		assert.Equal(t, tc.want, out)
	}

	_, err := executeCmd(t, "duration", "abc")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := executeCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "roadmap (devel)\n", out)
}

func TestTokenCmd_UsesEnvSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	out, err := executeCmd(t, "token", "--sub", "alice", "--ttl", "1h")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (any, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	assert.True(t, tok.Valid)
	assert.Equal(t, "alice", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCmd_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := executeCmd(t, "token", "--sub", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	_, err = executeCmd(t, "token", "--secret", "x")
	require.Error(t, err, "--sub is required")

	_, err = executeCmd(t, "token", "--sub", "alice", "--secret", "x", "--ttl", "-1h")
	require.Error(t, err)
}
