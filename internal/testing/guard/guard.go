// Package guard flags the process as a test run so binaries and helpers
// skip runtime side effects. memstore imports it, so every service test that
// builds on the in-memory store runs with the flag set. An explicit value in
// the environment is left alone.
package guard

import "os"

// EnvVar is read by app.InTestMode.
const EnvVar = "COURTLINE_TEST_MODE"

func init() {
	if _, set := os.LookupEnv(EnvVar); !set {
		_ = os.Setenv(EnvVar, "1")
	}
}
