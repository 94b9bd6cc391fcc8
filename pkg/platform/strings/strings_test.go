package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimStrings(t *testing.T) {
	a, b := "  x ", "y"
	TrimStrings(&a, &b)
	assert.Equal(t, "x", a)
	assert.Equal(t, "y", b)
}

func TestDedupeAndTrim(t *testing.T) {
	assert.Equal(t, []string{"08:00", "20:00"}, DedupeAndTrim([]string{" 08:00", "20:00", "08:00 ", "", "  "}))
	assert.Empty(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{" "}))
}
