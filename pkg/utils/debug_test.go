package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFileAndLoC(t *testing.T) {
	got := GetFileAndLoC(0)

	assert.True(t, strings.HasPrefix(got, "ppv-gate/pkg/utils/debug_test.go:"), "GetFileAndLoC() = %v", got)
}
