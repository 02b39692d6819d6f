package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	for _, s := range []string{
		"a@b.co", "first.last@example.com", "x+tag@mail.example.org",
		"o'neil_1@a-b.in", "A@B.CO", "a-@b.co",
	} {
		require.True(t, ValidEmail(s), s)
	}
	for _, s := range []string{
		"", "a", "a@b", "a@localhost", "@b.co", "a@.co",
		"a@b..c", "a..b@c.de", ".a@b.co", "a.@b.co", "a'@b.co",
		"a@-b.co", "a@b.co.", "a@b_c.de", "a@b.c", "a@b.c0",
		"a b@c.de", "a@b@c.de",
	} {
		require.False(t, ValidEmail(s), s)
	}
}
