// Package validate offers best-effort, non-blocking sanity checks over the
// opaque FEN and move strings the uci package otherwise treats as plain
// tokens. A failure here is logged as a warning and never stops a command
// from being forwarded: the child engine remains the sole authority on
// legality.
package validate

import (
	"fmt"

	"github.com/corentings/chess/v2"
	"github.com/relayfish/remote-uci/internal/uci"
)

// FEN reports a human-readable reason a FEN string does not parse, or ""
// if it looks well-formed.
func FEN(fen string) string {
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return fmt.Sprintf("malformed FEN %q: %v", fen, err)
	}
	return ""
}

// Moves reports a human-readable reason one of the moves isn't shaped like
// coordinate notation, or "" if every move passes the shape check. This is
// a syntax check only: it can't see the position, so it never flags an
// illegal-but-well-formed move.
func Moves(moves []string) string {
	for _, m := range moves {
		if !uci.LooksLikeMove(m) {
			return fmt.Sprintf("move %q is not in coordinate notation", m)
		}
	}
	return ""
}
