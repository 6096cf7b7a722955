package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLRNumber(t *testing.T) {
	lr := GenerateLRNumber()

	parts := strings.Split(lr, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "LR", parts[0])
	assert.Equal(t, time.Now().Format("20060102"), parts[1])
	assert.Len(t, parts[2], 10)

	// Two numbers generated back to back must differ.
	assert.NotEqual(t, lr, GenerateLRNumber())
}

func TestDayRange(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	start, end := DayRange(ts)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), end)
}
