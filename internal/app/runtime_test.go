package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInTestModeFollowsEnvironment(t *testing.T) {
	t.Cleanup(RefreshTestMode)
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "true")
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	assert.False(t, InTestMode())

	t.Setenv(testModeEnv, "maybe")
	RefreshTestMode()
	assert.False(t, InTestMode())
}

func TestMemstoreImportEnablesTestMode(t *testing.T) {
	t.Cleanup(RefreshTestMode)
	RefreshTestMode()
	assert.True(t, InTestMode())
}
