package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateText(t *testing.T) {
	require.Equal(t, "short", TruncateText("short"))

	exact := strings.Repeat("a", MaxActivityTextLen)
	require.Equal(t, exact, TruncateText(exact))

	long := strings.Repeat("b", MaxActivityTextLen+10)
	got := TruncateText(long)
	require.Equal(t, strings.Repeat("b", MaxActivityTextLen)+"...", got)
}

func TestTruncateTextMultibyte(t *testing.T) {
	long := strings.Repeat("日", MaxActivityTextLen+1)
	got := TruncateText(long)
	require.Equal(t, strings.Repeat("日", MaxActivityTextLen)+"...", got)
}
