package osutil_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suzmue/vscode-go/pkg/osutil"
)

func TestEnvironMapContainsSetVariable(t *testing.T) {
	t.Setenv("VSCGO_TEST_ENV_VAR", "some value")

	m := osutil.EnvironMap()
	require.Equal(t, "some value", m["VSCGO_TEST_ENV_VAR"])
}

func TestJoinEnvSortedPairs(t *testing.T) {
	t.Parallel()

	joined := osutil.JoinEnv(map[string]string{
		"B": "2",
		"A": "1",
		"C": "",
	})
	require.Equal(t, []string{"A=1", "B=2", "C="}, joined)
}

func TestEnvVarStringWithDefault(t *testing.T) {
	t.Setenv("VSCGO_TEST_BLANK", "   ")
	require.Equal(t, "fallback", osutil.EnvVarStringWithDefault("VSCGO_TEST_BLANK", "fallback"))

	t.Setenv("VSCGO_TEST_SET", "value")
	require.Equal(t, "value", osutil.EnvVarStringWithDefault("VSCGO_TEST_SET", "fallback"))
}

func TestEnvVarSwitchEnabled(t *testing.T) {
	for _, truthy := range []string{"1", "true", "ON", "Yes"} {
		t.Setenv("VSCGO_TEST_SWITCH", truthy)
		require.True(t, osutil.EnvVarSwitchEnabled("VSCGO_TEST_SWITCH"), truthy)
	}

	t.Setenv("VSCGO_TEST_SWITCH", "0")
	require.False(t, osutil.EnvVarSwitchEnabled("VSCGO_TEST_SWITCH"))
}
