package uci_test

import (
	"testing"

	"github.com/relayfish/remote-uci/internal/uci"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOutBasicCommands(t *testing.T) {
	tests := []struct {
		line string
		want uci.OutputCommand
	}{
		{"uciok", uci.Uciok{}},
		{"readyok", uci.Readyok{}},
		{"id name Stockfish 16", uci.IdName{Name: "Stockfish 16"}},
		{"id author the Stockfish developers", uci.IdAuthor{Author: "the Stockfish developers"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := uci.DecodeOut(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeOutBestmove(t *testing.T) {
	got, err := uci.DecodeOut("bestmove e2e4 ponder e7e5")
	require.NoError(t, err)
	assert.Equal(t, uci.Bestmove{Move: "e2e4", Ponder: lang.Some("e7e5")}, got)

	got, err = uci.DecodeOut("bestmove e2e4")
	require.NoError(t, err)
	assert.Equal(t, uci.Bestmove{Move: "e2e4"}, got)
}

func TestDecodeOutUnrecognizedLeadingTokenIsNil(t *testing.T) {
	got, err := uci.DecodeOut("Stockfish 16 by the Stockfish developers")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeOutOption(t *testing.T) {
	tests := []struct {
		name string
		line string
		want uci.Option
	}{
		{
			name: "check",
			line: "option name Ponder type check default false",
			want: uci.Option{Name: uci.NewOptionName("Ponder"), Schema: uci.CheckSchema{Default: false}},
		},
		{
			name: "spin",
			line: "option name Threads type spin default 1 min 1 max 512",
			want: uci.Option{Name: uci.NewOptionName("Threads"), Schema: uci.SpinSchema{Default: 1, Min: 1, Max: 512}},
		},
		{
			name: "combo",
			line: "option name Style type combo default Normal var Solid var Normal var Risky",
			want: uci.Option{
				Name:   uci.NewOptionName("Style"),
				Schema: uci.ComboSchema{Default: "Normal", Var: []string{"Solid", "Normal", "Risky"}},
			},
		},
		{
			name: "combo, var precedes default",
			line: "option name U type combo var uroe co default ce",
			want: uci.Option{
				Name:   uci.NewOptionName("U"),
				Schema: uci.ComboSchema{Default: "ce", Var: []string{"uroe co"}},
			},
		},
		{
			name: "button",
			line: "option name Clear Hash type button",
			want: uci.Option{Name: uci.NewOptionName("Clear Hash"), Schema: uci.ButtonSchema{}},
		},
		{
			name: "string",
			line: "option name Debug Log File type string default ",
			want: uci.Option{Name: uci.NewOptionName("Debug Log File"), Schema: uci.StringSchema{Default: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uci.DecodeOut(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeOutInfo(t *testing.T) {
	line := "info depth 12 seldepth 20 multipv 1 score cp 25 nodes 123456 nps 500000 tbhits 0 time 246 pv e2e4 e7e5 g1f3"
	got, err := uci.DecodeOut(line)
	require.NoError(t, err)

	want := uci.Info{
		Depth:    lang.Some(int64(12)),
		SelDepth: lang.Some(int64(20)),
		MultiPV:  lang.Some(int64(1)),
		Score:    lang.Some(uci.Score{Kind: "cp", Value: 25}),
		Nodes:    lang.Some(int64(123456)),
		Nps:      lang.Some(int64(500000)),
		TbHits:   lang.Some(int64(0)),
		Time:     lang.Some(int64(246)),
		Pv:       []string{"e2e4", "e7e5", "g1f3"},
	}
	assert.Equal(t, want, got)
}

func TestDecodeOutInfoRefutation(t *testing.T) {
	got, err := uci.DecodeOut("info refutation d1h5 g6h5")
	require.NoError(t, err)
	assert.Equal(t, uci.Info{Refutation: map[string][]string{"d1h5": {"g6h5"}}}, got)
}

func TestDecodeOutInfoMateScoreWithBound(t *testing.T) {
	got, err := uci.DecodeOut("info score mate 3 upperbound")
	require.NoError(t, err)
	assert.Equal(t, uci.Info{Score: lang.Some(uci.Score{Kind: "mate", Value: 3, Bound: "upperbound"})}, got)
}

func TestDecodeOutInfoString(t *testing.T) {
	got, err := uci.DecodeOut("info string NNUE evaluation using nn-abcdef.nnue")
	require.NoError(t, err)
	assert.Equal(t, uci.Info{String: lang.Some("NNUE evaluation using nn-abcdef.nnue")}, got)
}

func TestDecodeOutInfoUnrecognizedKeyIsError(t *testing.T) {
	_, err := uci.DecodeOut("info blorp 5")
	assert.ErrorIs(t, err, uci.ErrUnexpectedToken)
}

func TestDecodeOutRoundTrip(t *testing.T) {
	lines := []string{
		"uciok",
		"readyok",
		"id name Stockfish 16",
		"bestmove e2e4 ponder e7e5",
		"option name Threads type spin default 1 min 1 max 512",
		"info depth 12 score cp 25 pv e2e4 e7e5",
		"info refutation d1h5 g6h5",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			cmd, err := uci.DecodeOut(line)
			require.NoError(t, err)
			require.NotNil(t, cmd)

			again, err := uci.DecodeOut(cmd.Encode())
			require.NoError(t, err)
			assert.Equal(t, cmd, again)
		})
	}
}
