package uci

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
)

// InputCommand is a command sent from client to engine (stdin direction).
// Concrete types: Uci, Isready, Setoption, Ucinewgame, Position, Go, Stop,
// Ponderhit.
type InputCommand interface {
	isInputCommand()
	Encode() string
}

type Uci struct{}

func (Uci) isInputCommand() {}
func (Uci) Encode() string  { return "uci" }

type Isready struct{}

func (Isready) isInputCommand() {}
func (Isready) Encode() string  { return "isready" }

type Ucinewgame struct{}

func (Ucinewgame) isInputCommand() {}
func (Ucinewgame) Encode() string  { return "ucinewgame" }

type Stop struct{}

func (Stop) isInputCommand() {}
func (Stop) Encode() string  { return "stop" }

type Ponderhit struct{}

func (Ponderhit) isInputCommand() {}
func (Ponderhit) Encode() string  { return "ponderhit" }

// Setoption sets or triggers an engine option. Value is absent for a
// button option, or for a check/spin/combo/string option the GUI wants
// reset to default by name alone.
type Setoption struct {
	Name  OptionName
	Value lang.Optional[string]
}

func (Setoption) isInputCommand() {}

func (c Setoption) Encode() string {
	s := fmt.Sprintf("setoption name %v", c.Name)
	if v, ok := c.Value.V(); ok {
		s += " value " + v
	}
	return s
}

// Position sets up a position and an optional list of moves played from
// it. An absent FEN means the standard starting position.
type Position struct {
	FEN   lang.Optional[string]
	Moves []string
}

func (Position) isInputCommand() {}

func (c Position) Encode() string {
	var sb strings.Builder
	sb.WriteString("position ")
	if fen, ok := c.FEN.V(); ok {
		sb.WriteString("fen ")
		sb.WriteString(fen)
	} else {
		sb.WriteString("startpos")
	}
	if len(c.Moves) > 0 {
		sb.WriteString(" moves")
		for _, m := range c.Moves {
			sb.WriteString(" ")
			sb.WriteString(m)
		}
	}
	return sb.String()
}

// Go starts a search. All fields are optional except Ponder and Infinite,
// which default false, and SearchMoves, which defaults empty.
type Go struct {
	SearchMoves []string
	Ponder      bool
	WTime       lang.Optional[time.Duration]
	BTime       lang.Optional[time.Duration]
	WInc        lang.Optional[time.Duration]
	BInc        lang.Optional[time.Duration]
	MovesToGo   lang.Optional[int64]
	Depth       lang.Optional[int64]
	Nodes       lang.Optional[int64]
	Mate        lang.Optional[int64]
	MoveTime    lang.Optional[time.Duration]
	Infinite    bool
}

func (Go) isInputCommand() {}

func (c Go) Encode() string {
	var parts []string
	parts = append(parts, "go")
	if c.Ponder {
		parts = append(parts, "ponder")
	}
	if v, ok := c.WTime.V(); ok {
		parts = append(parts, "wtime", strconv.FormatInt(v.Milliseconds(), 10))
	}
	if v, ok := c.BTime.V(); ok {
		parts = append(parts, "btime", strconv.FormatInt(v.Milliseconds(), 10))
	}
	if v, ok := c.WInc.V(); ok {
		parts = append(parts, "winc", strconv.FormatInt(v.Milliseconds(), 10))
	}
	if v, ok := c.BInc.V(); ok {
		parts = append(parts, "binc", strconv.FormatInt(v.Milliseconds(), 10))
	}
	if v, ok := c.MovesToGo.V(); ok {
		parts = append(parts, "movestogo", strconv.FormatInt(v, 10))
	}
	if v, ok := c.Depth.V(); ok {
		parts = append(parts, "depth", strconv.FormatInt(v, 10))
	}
	if v, ok := c.Nodes.V(); ok {
		parts = append(parts, "nodes", strconv.FormatInt(v, 10))
	}
	if v, ok := c.Mate.V(); ok {
		parts = append(parts, "mate", strconv.FormatInt(v, 10))
	}
	if v, ok := c.MoveTime.V(); ok {
		parts = append(parts, "movetime", strconv.FormatInt(v.Milliseconds(), 10))
	}
	if c.Infinite {
		parts = append(parts, "infinite")
	}
	if len(c.SearchMoves) > 0 {
		parts = append(parts, "searchmoves")
		parts = append(parts, c.SearchMoves...)
	}
	return strings.Join(parts, " ")
}

// DecodeIn parses a single client-to-engine line. It returns (nil, nil)
// for a blank line.
func DecodeIn(line string) (InputCommand, error) {
	p, err := newScanner(line)
	if err != nil {
		return nil, err
	}

	tok, ok := p.nextToken()
	if !ok {
		return nil, nil
	}

	switch tok {
	case "uci":
		if err := expectEnd(p); err != nil {
			return nil, err
		}
		return Uci{}, nil
	case "isready":
		if err := expectEnd(p); err != nil {
			return nil, err
		}
		return Isready{}, nil
	case "ucinewgame":
		if err := expectEnd(p); err != nil {
			return nil, err
		}
		return Ucinewgame{}, nil
	case "stop":
		if err := expectEnd(p); err != nil {
			return nil, err
		}
		return Stop{}, nil
	case "ponderhit":
		if err := expectEnd(p); err != nil {
			return nil, err
		}
		return Ponderhit{}, nil
	case "setoption":
		return decodeSetoption(p)
	case "position":
		return decodePosition(p)
	case "go":
		return decodeGo(p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, tok)
	}
}

func expectEnd(p *scanner) error {
	if !p.atEnd() {
		return ErrExpectedEndOfLine
	}
	return nil
}

func decodeSetoption(p *scanner) (InputCommand, error) {
	tok, ok := p.nextToken()
	if !ok {
		return nil, ErrUnexpectedEndOfLine
	}
	if tok != "name" {
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, tok)
	}

	name := p.takeUntil(func(t string) bool { return t == "value" })
	if name == "" {
		return nil, ErrUnexpectedEndOfLine
	}

	var value lang.Optional[string]
	if next, ok := p.nextToken(); ok {
		if next != "value" {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, next)
		}
		value = lang.Some(p.rest())
	}

	return Setoption{Name: NewOptionName(name), Value: value}, nil
}

func decodePosition(p *scanner) (InputCommand, error) {
	var fen lang.Optional[string]

	kw, ok := p.nextToken()
	if !ok {
		return nil, ErrUnexpectedEndOfLine
	}
	switch kw {
	case "startpos":
		// fen stays absent
	case "fen":
		f := p.takeUntil(func(t string) bool { return t == "moves" })
		if f == "" {
			return nil, ErrUnexpectedEndOfLine
		}
		fen = lang.Some(f)
	case "moves":
		// A bare "position moves ..." is read as moves from the start position.
		var moves []string
		for {
			m, ok := p.nextToken()
			if !ok {
				break
			}
			moves = append(moves, m)
		}
		return Position{Moves: moves}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, kw)
	}

	var moves []string
	if next, ok := p.nextToken(); ok {
		if next != "moves" {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, next)
		}
		for {
			m, ok := p.nextToken()
			if !ok {
				break
			}
			moves = append(moves, m)
		}
	}

	return Position{FEN: fen, Moves: moves}, nil
}

func decodeGo(p *scanner) (InputCommand, error) {
	var c Go
	for {
		tok, ok := p.nextToken()
		if !ok {
			break
		}

		switch tok {
		case "ponder":
			c.Ponder = true
		case "infinite":
			c.Infinite = true
		case "movestogo":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.MovesToGo = lang.Some(n)
		case "depth":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.Depth = lang.Some(n)
		case "nodes":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.Nodes = lang.Some(n)
		case "mate":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.Mate = lang.Some(n)
		case "movetime":
			d, err := decodeMillis(p)
			if err != nil {
				return nil, err
			}
			c.MoveTime = lang.Some(d)
		case "wtime":
			d, err := decodeMillis(p)
			if err != nil {
				return nil, err
			}
			c.WTime = lang.Some(d)
		case "btime":
			d, err := decodeMillis(p)
			if err != nil {
				return nil, err
			}
			c.BTime = lang.Some(d)
		case "winc":
			d, err := decodeMillis(p)
			if err != nil {
				return nil, err
			}
			c.WInc = lang.Some(d)
		case "binc":
			d, err := decodeMillis(p)
			if err != nil {
				return nil, err
			}
			c.BInc = lang.Some(d)
		case "searchmoves":
			for {
				m, ok := p.peek()
				if !ok || !looksLikeMove(m) {
					break
				}
				p.nextToken()
				c.SearchMoves = append(c.SearchMoves, m)
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, tok)
		}
	}
	return c, nil
}

func decodeInt(p *scanner) (int64, error) {
	tok, ok := p.nextToken()
	if !ok {
		return 0, ErrUnexpectedEndOfLine
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInteger, tok)
	}
	return n, nil
}

func decodeMillis(p *scanner) (time.Duration, error) {
	n, err := decodeInt(p)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}
