package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("LEDGER_EXPORT_TEST_ENV", "value")

	assert.Equal(t, "value", getEnv("LEDGER_EXPORT_TEST_ENV", "default"))
	assert.Equal(t, "default", getEnv("LEDGER_EXPORT_MISSING_ENV", "default"))
}
