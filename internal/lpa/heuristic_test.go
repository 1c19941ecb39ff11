package lpa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLooksLikeESIM(t *testing.T) {
	t.Parallel()

	positives := []string{
		"a$b",
		"smdp.example.com",
		"K7GQ2-XXRTP-1", // long code run
		"scan this LPA code",
		"my eSIM voucher",
	}
	for _, s := range positives {
		require.True(t, LooksLikeESIM(s), "expected eSIM-like: %q", s)
	}

	negatives := []string{
		"",
		"hello world",
		"short a1b2",
	}
	for _, s := range negatives {
		require.False(t, LooksLikeESIM(s), "expected not eSIM-like: %q", s)
	}
}
