package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, DefaultLimit, NormalizeLimit(-3))
	require.Equal(t, 10, NormalizeLimit(10))
	require.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+50))
	require.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	encoded := EncodeCursor(Cursor{CreatedAt: created, Aid: "a1b2c3"})

	parsed, err := ParseCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	require.True(t, parsed.CreatedAt.Equal(created))
	require.Equal(t, "a1b2c3", parsed.Aid)
}

func TestParseCursorEdgeCases(t *testing.T) {
	parsed, err := ParseCursor("   ")
	require.NoError(t, err)
	require.Nil(t, parsed)

	_, err = ParseCursor("%%%not-base64%%%")
	require.Error(t, err)

	_, err = ParseCursor("bm8gcGlwZSBoZXJl") // valid base64, wrong shape
	require.Error(t, err)
}
