package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vidbrief/pkg/config"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	assert.Equal(t, "value", config.GetEnvString("TEST_STRING", "default"))
	assert.Equal(t, "default", config.GetEnvString("TEST_STRING_UNSET", "default"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, config.GetEnvInt("TEST_INT", 1))

	t.Setenv("TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 7, config.GetEnvInt("TEST_INT_BAD", 7))

	assert.Equal(t, 7, config.GetEnvInt("TEST_INT_UNSET", 7))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, config.GetEnvBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL_BAD", "yes-please")
	assert.True(t, config.GetEnvBool("TEST_BOOL_BAD", true))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DUR", "1h30m")
	assert.Equal(t, 90*time.Minute, config.GetEnvDuration("TEST_DUR", time.Second))

	t.Setenv("TEST_DUR_BAD", "ninety minutes")
	assert.Equal(t, time.Second, config.GetEnvDuration("TEST_DUR_BAD", time.Second))
}
