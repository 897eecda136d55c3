package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"localhost:9092"}, CSV("localhost:9092"))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092 , b:9092 "))
	assert.Empty(t, CSV(" , ,"))
}

func TestEnvDefault(t *testing.T) {
	t.Setenv("IMAX_TEST_SET", "value")
	t.Setenv("IMAX_TEST_EMPTY", "")

	assert.Equal(t, "value", EnvDefault("IMAX_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", EnvDefault("IMAX_TEST_EMPTY", "fallback"))
	assert.Equal(t, "fallback", EnvDefault("IMAX_TEST_UNSET", "fallback"))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("IMAX_TEST_PORT", "8080")
	t.Setenv("IMAX_TEST_BAD_PORT", "eighty")

	assert.Equal(t, 8080, EnvIntDefault("IMAX_TEST_PORT", 5000))
	assert.Equal(t, 5000, EnvIntDefault("IMAX_TEST_BAD_PORT", 5000))
	assert.Equal(t, 5000, EnvIntDefault("IMAX_TEST_NO_PORT", 5000))
}
