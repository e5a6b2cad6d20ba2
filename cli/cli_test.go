package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gitrec/gitrec-companion/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return strings.TrimSpace(out.String()), err
}

func TestPreferenceCommands(t *testing.T) {
	t.Setenv("GITREC_STORE_PATH", filepath.Join(t.TempDir(), "preferences.db"))

	out, err := run(t, "preference", "get", "--login", "octocat")
	require.NoError(t, err)
	assert.Equal(t, "gitrec", out)

	_, err = run(t, "preference", "set", "github", "--login", "octocat")
	require.NoError(t, err)

	out, err = run(t, "preference", "get", "--login", "octocat")
	require.NoError(t, err)
	assert.Equal(t, "github", out)

	_, err = run(t, "preference", "set", "gitlab")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSimilarValidatesArguments(t *testing.T) {
	_, err := run(t, "similar", "gorse")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = run(t, "similar", "gorse-io/gorse", "--offset", "4")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = run(t, "similar", "gorse-io/gorse", "--offset", "12")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestReadValidatesArguments(t *testing.T) {
	_, err := run(t, "read", "not-a-ref")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = run(t, "read")
	assert.Error(t, err)
}
