package bytesize

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{999, "999 B"},
		{1000, "1 kB"},
		{1500, "1.5 kB"},
		{1557809, "1.56 MB"},
		{999_999, "1 MB"},
		{2_000_000_000, "2 GB"},
		{1_234_567_890_123, "1.23 TB"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Format(tc.in), "Format(%d)", tc.in)
	}
}

func TestFormat_LargestInput(t *testing.T) {
	got := Format(math.MaxUint64)
	require.Equal(t, "18.45 EB", got)
}

func TestFormat_AtMostTwoDecimals(t *testing.T) {
	for _, b := range []uint64{1001, 12_345, 987_654_321, 5_555_555_555_555} {
		got := Format(b)
		num := strings.Fields(got)[0]
		require.LessOrEqual(t, strings.Count(num, "."), 1, got)
		if i := strings.IndexByte(num, '.'); i >= 0 {
			require.LessOrEqual(t, len(num)-i-1, 2, got)
		}
	}
}
