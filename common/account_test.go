package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAccountID(t *testing.T) {
	for _, s := range []string{
		"ab",
		"alice.near",
		"htpc.testnet",
		"a-b_c.d",
		"0x1234",
		strings.Repeat("a", MaxAccountIDLen),
	} {
		require.NoError(t, ValidateAccountID(s), s)
	}

	for _, s := range []string{
		"",
		"a",
		strings.Repeat("a", MaxAccountIDLen+1),
		"Alice.near",
		".alice",
		"alice.",
		"alice..near",
		"alice-_near",
		"alice near",
		"alice@near",
	} {
		require.ErrorIs(t, ValidateAccountID(s), ErrInvalidAccountID, s)
	}
}
