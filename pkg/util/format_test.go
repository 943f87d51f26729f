package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatNumberID(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		6200:     "6.200",
		6510:     "6.510",
		12400000: "12.400.000",
		999:      "999",
		1234.5:   "1.234,5",
		0.125:    "0,125",
		-28500:   "-28.500",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatNumberID(in), "input %v", in)
	}
	require.Equal(t, "Rp 35.000", FormatRupiah(35000))
}

func TestFormatTimestampID(t *testing.T) {
	ts := time.Date(2025, 8, 1, 0, 5, 9, 0, time.UTC)
	require.Equal(t, "1/8/2025, 07.05.09", FormatTimestampID(ts))
}
