package app

import (
	"os"
	"strconv"
	"sync"
	"sync/atomic"
)

const testModeEnv = "COURTLINE_TEST_MODE"

var (
	testMode     atomic.Bool
	testModeOnce sync.Once
)

// loadTestMode accepts any strconv.ParseBool spelling; anything else,
// including an empty value, means a normal run.
func loadTestMode() {
	on, err := strconv.ParseBool(os.Getenv(testModeEnv))
	testMode.Store(err == nil && on)
}

// InTestMode reports whether binaries should skip connecting to Postgres,
// Redis and the network.
func InTestMode() bool {
	testModeOnce.Do(loadTestMode)
	return testMode.Load()
}

// RefreshTestMode re-reads the flag after the environment changed.
func RefreshTestMode() {
	testModeOnce.Do(func() {})
	loadTestMode()
}
