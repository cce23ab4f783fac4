package cli

import (
	"context"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStartAppTokenOverride verifies an interactively supplied token
// reaches the app's configuration directly, taking precedence over the
// environment, without mutating the environment on the way.
func TestStartAppTokenOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BLOBTASK_BACKEND_CONFIG", "")
	t.Setenv("BLOBTASK_AUTH_TOKEN", "from-env")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	a, err := startAppWithToken(cmd, "typed")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "typed", a.Config.AuthToken)
	assert.Equal(t, "from-env", os.Getenv("BLOBTASK_AUTH_TOKEN"), "environment untouched")
}

func TestStartAppKeepsEnvTokenWithoutOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BLOBTASK_BACKEND_CONFIG", "")
	t.Setenv("BLOBTASK_AUTH_TOKEN", "from-env")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	a, err := startApp(cmd)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "from-env", a.Config.AuthToken)
}
