package testutil

import (
	"os"
	"testing"
)

// UnsetEnv removes the given environment variables for the duration of the
// test. Setting a variable to "" is not the same: lookups still see it as
// present. Like t.Setenv, it cannot be used in parallel tests.
func UnsetEnv(t testing.TB, keys ...string) {
	t.Helper()
	for _, key := range keys {
		// registers the restore of the original value
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}
