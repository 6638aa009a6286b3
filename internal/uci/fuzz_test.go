package uci_test

import (
	"testing"

	"github.com/relayfish/remote-uci/internal/uci"
)

// FuzzDecodeIn checks that DecodeIn never panics on arbitrary input, and
// that whenever it succeeds, the encoded result re-decodes and encodes to
// the same line (Encode(DecodeIn(Encode(DecodeIn(s)))) == Encode(DecodeIn(s))).
func FuzzDecodeIn(f *testing.F) {
	seeds := []string{
		"uci",
		"isready",
		"ucinewgame",
		"stop",
		"ponderhit",
		"setoption name Hash value 32",
		"setoption name Clear Hash",
		"position startpos moves e2e4 e7e5",
		"position fen 8/8/8/8/8/8/8/8 w - - 0 1",
		"go depth 5",
		"go wtime 1000 btime 1000 winc 10 binc 10 movestogo 5",
		"go searchmoves e2e4 d2d4 infinite",
		"  \t go   depth   5 \t ",
		"",
		"\t \t",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, line string) {
		cmd, err := uci.DecodeIn(line)
		if err != nil {
			return
		}
		if cmd == nil {
			return
		}

		again, err := uci.DecodeIn(cmd.Encode())
		if err != nil {
			t.Fatalf("re-decoding %q (from %q) failed: %v", cmd.Encode(), line, err)
		}
		if again == nil {
			t.Fatalf("re-decoding %q (from %q) produced nil", cmd.Encode(), line)
		}
		if again.Encode() != cmd.Encode() {
			t.Fatalf("not idempotent: %q -> %q -> %q", line, cmd.Encode(), again.Encode())
		}
	})
}

// FuzzDecodeOut mirrors FuzzDecodeIn for the engine-to-client direction.
func FuzzDecodeOut(f *testing.F) {
	seeds := []string{
		"uciok",
		"readyok",
		"id name Stockfish 16",
		"id author the Stockfish developers",
		"bestmove e2e4 ponder e7e5",
		"option name Threads type spin default 1 min 1 max 512",
		"option name Style type combo default Normal var Solid var Risky",
		"info depth 12 score cp 25 pv e2e4 e7e5",
		"info string hello world",
		"Stockfish 16 by the Stockfish developers",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, line string) {
		cmd, err := uci.DecodeOut(line)
		if err != nil {
			return
		}
		if cmd == nil {
			return
		}

		again, err := uci.DecodeOut(cmd.Encode())
		if err != nil {
			t.Fatalf("re-decoding %q (from %q) failed: %v", cmd.Encode(), line, err)
		}
		if again == nil {
			t.Fatalf("re-decoding %q (from %q) produced nil", cmd.Encode(), line)
		}
		if again.Encode() != cmd.Encode() {
			t.Fatalf("not idempotent: %q -> %q -> %q", line, cmd.Encode(), again.Encode())
		}
	})
}
