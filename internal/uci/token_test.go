package uci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerNextToken(t *testing.T) {
	p, err := newScanner("  go   depth 5 ")
	require.NoError(t, err)

	tok, ok := p.nextToken()
	assert.True(t, ok)
	assert.Equal(t, "go", tok)

	tok, ok = p.nextToken()
	assert.True(t, ok)
	assert.Equal(t, "depth", tok)

	tok, ok = p.nextToken()
	assert.True(t, ok)
	assert.Equal(t, "5", tok)

	_, ok = p.nextToken()
	assert.False(t, ok)
}

func TestScannerNewlineRejected(t *testing.T) {
	_, err := newScanner("go\ndepth 5")
	assert.ErrorIs(t, err, ErrUnexpectedLineBreak)
}

func TestTakeUntil(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		sentinel  string
		head      string
		remainder string // what nextToken yields on the scanner afterward, or "" for none
	}{
		{"sentinel present", "name Hash value 32", "value", "name Hash", "value"},
		{"sentinel absent", "name Hash", "value", "name Hash", ""},
		{"sentinel first token never matched", "value abc", "value", "value abc", ""},
		{"trailing whitespace trimmed", "name Hash   value 32", "value", "name Hash", "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := newScanner(tt.in)
			require.NoError(t, err)

			head := p.takeUntil(func(tok string) bool { return tok == tt.sentinel })
			assert.Equal(t, tt.head, head)

			next, ok := p.nextToken()
			if tt.remainder == "" {
				assert.False(t, ok)
			} else {
				assert.True(t, ok)
				assert.Equal(t, tt.remainder, next)
			}
		})
	}
}

func TestWhitespaceInsensitivity(t *testing.T) {
	a, err := DecodeIn("go depth 5")
	require.NoError(t, err)
	b, err := DecodeIn("  \t go   depth   5 \t ")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
