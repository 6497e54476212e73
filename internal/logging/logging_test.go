package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"", "console", "json"} {
		logger, err := NewLogger(format)
		require.NoError(t, err, format)
		assert.NotNil(t, logger)
	}

	_, err := NewLogger("xml")
	assert.Error(t, err)
}
