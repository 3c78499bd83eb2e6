package guard_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/courtline/courtline/internal/testing/guard"
)

func TestImportSetsTestMode(t *testing.T) {
	_, set := os.LookupEnv(guard.EnvVar)
	assert.True(t, set)
}
