package switchback_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
)

func TestEnvVarOrEnv(t *testing.T) {
	tcs := []struct {
		name     string
		val      string
		expected switchback.Environment
	}{
		{"unset", "", switchback.Production},
		{"lower", "testing", switchback.Testing},
		{"upper", "STAGING", switchback.Staging},
		{"invalid", "moon", switchback.Production},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			t.Setenv("SWITCHBACK_TEST_ENV", tc.val)

			// Act
			actual := switchback.EnvVarOrEnv("SWITCHBACK_TEST_ENV", switchback.Production)

			// Assert
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestEnvVarOrStrings(t *testing.T) {
	// Arrange
	t.Setenv("SWITCHBACK_TEST_ROOTS", " vendor/, ,lib ")

	// Act
	actual := switchback.EnvVarOrStrings("SWITCHBACK_TEST_ROOTS", nil)

	// Assert
	require.Equal(t, []string{"vendor/", "lib"}, actual)
	require.Equal(t, []string{"x"}, switchback.EnvVarOrStrings("SWITCHBACK_TEST_UNSET", []string{"x"}))
}

func TestEnvVarOrScalars(t *testing.T) {
	// Arrange
	t.Setenv("SWITCHBACK_TEST_BOOL", "TRUE")
	t.Setenv("SWITCHBACK_TEST_DUR", "3s")
	t.Setenv("SWITCHBACK_TEST_INT", "nope")

	// Act + Assert
	require.True(t, switchback.EnvVarOrBool("SWITCHBACK_TEST_BOOL", false))
	require.Equal(t, 3*time.Second, switchback.EnvVarOrDuration("SWITCHBACK_TEST_DUR", time.Second))
	require.Equal(t, 7, switchback.EnvVarOrInt("SWITCHBACK_TEST_INT", 7))
	require.Equal(t, "def", switchback.EnvVarOrString("SWITCHBACK_TEST_UNSET", "def"))
}
