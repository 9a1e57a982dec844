package auth_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/internal/auth"
)

func TestBasicAuthHeader(t *testing.T) {
	// The stock development credentials of the catalog backend.
	header := auth.BasicAuthHeader("admin", "admin")
	assert.Equal(t, "Basic YWRtaW46YWRtaW4=", header)
}

func TestBasicAuthHeader_RoundTrips(t *testing.T) {
	header := auth.BasicAuthHeader("alice", "s3cret:with:colons")

	require.True(t, strings.HasPrefix(header, "Basic "))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	require.NoError(t, err)
	assert.Equal(t, "alice:s3cret:with:colons", string(decoded))
}

func TestBasicAuthHeader_Deterministic(t *testing.T) {
	assert.Equal(t,
		auth.BasicAuthHeader("user", "pass"),
		auth.BasicAuthHeader("user", "pass"),
	)
}
