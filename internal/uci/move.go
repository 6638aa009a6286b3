package uci

import "regexp"

// moveShape matches the coordinate notation UCI moves are written in
// (e.g. "e2e4", "e7e8q") plus the null move "0000". The codec treats moves
// as opaque tokens; this is only a shape test, used to decide where a
// greedy move list ends, not a legality check. Legality is left to the
// engine.
var moveShape = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$|^0000$`)

func looksLikeMove(tok string) bool {
	return moveShape.MatchString(tok)
}

// LooksLikeMove reports whether tok is shaped like coordinate notation
// (e.g. "e2e4", "e7e8q") or the null move "0000". It is a syntax check
// only, not a legality check.
func LooksLikeMove(tok string) bool {
	return looksLikeMove(tok)
}
