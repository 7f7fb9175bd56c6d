package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	t.Run("Native", func(t *testing.T) {
		header := strings.Split(nativeHeader, ",")

		format, err := DetectFormat(header)

		require.NoError(t, err)
		assert.Equal(t, FormatNative, format)
	})

	t.Run("NativeWithExtraColumns", func(t *testing.T) {
		header := append(strings.Split(nativeHeader, ","), "risk", "setup")

		format, err := DetectFormat(header)

		require.NoError(t, err)
		assert.Equal(t, FormatNative, format)
	})

	t.Run("Paired", func(t *testing.T) {
		header := []string{"Trade #", "Type", "Signal", "Date/Time", "Price", "Position size"}

		format, err := DetectFormat(header)

		require.NoError(t, err)
		assert.Equal(t, FormatPaired, format)
	})

	t.Run("NativeWinsTies", func(t *testing.T) {
		// a header satisfying both heuristics is treated as native
		header := append(strings.Split(nativeHeader, ","), "Type", "Date/Time", "Price", "Trade #")

		format, err := DetectFormat(header)

		require.NoError(t, err)
		assert.Equal(t, FormatNative, format)
	})

	t.Run("NeitherFormat", func(t *testing.T) {
		header := []string{"foo", "bar"}

		_, err := DetectFormat(header)

		var serr *SchemaError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, requiredColumns, serr.Missing)
	})
}
