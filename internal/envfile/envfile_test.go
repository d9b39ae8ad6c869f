package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CAMSCREEN_T_A=from-file\nCAMSCREEN_T_B=\"quoted\"\n"), 0o644))

	t.Setenv("CAMSCREEN_T_A", "from-env")
	t.Setenv("CAMSCREEN_T_B", "")
	require.NoError(t, os.Unsetenv("CAMSCREEN_T_B"))

	require.NoError(t, Load(path))
	assert.Equal(t, "from-env", os.Getenv("CAMSCREEN_T_A"))
	assert.Equal(t, "quoted", os.Getenv("CAMSCREEN_T_B"))
}

func TestEnsureAndLoad_WritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", ".env")

	require.NoError(t, ensureAndLoad(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "CAMSCREEN_CONFIG_PATH=")
}
