package uci

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seekerror/stdlib/pkg/lang"
)

// OutputCommand is a line sent from engine to client (stdout direction).
// Concrete types: IdName, IdAuthor, Uciok, Readyok, Bestmove, Info, Option.
type OutputCommand interface {
	isOutputCommand()
	Encode() string
}

type IdName struct{ Name string }

func (IdName) isOutputCommand()  {}
func (c IdName) Encode() string { return "id name " + c.Name }

type IdAuthor struct{ Author string }

func (IdAuthor) isOutputCommand()  {}
func (c IdAuthor) Encode() string { return "id author " + c.Author }

type Uciok struct{}

func (Uciok) isOutputCommand() {}
func (Uciok) Encode() string   { return "uciok" }

type Readyok struct{}

func (Readyok) isOutputCommand() {}
func (Readyok) Encode() string   { return "readyok" }

// Bestmove reports the engine's chosen move, and optionally the move it
// expects to ponder on next.
type Bestmove struct {
	Move   string
	Ponder lang.Optional[string]
}

func (Bestmove) isOutputCommand() {}

func (c Bestmove) Encode() string {
	s := "bestmove " + c.Move
	if v, ok := c.Ponder.V(); ok {
		s += " ponder " + v
	}
	return s
}

// Score is the centipawn-or-mate evaluation carried by an Info line. Kind
// is "cp" or "mate"; Bound is "", "lowerbound", or "upperbound".
type Score struct {
	Kind  string
	Value int64
	Bound string
}

func (s Score) encode() string {
	parts := []string{"score", s.Kind, strconv.FormatInt(s.Value, 10)}
	if s.Bound != "" {
		parts = append(parts, s.Bound)
	}
	return strings.Join(parts, " ")
}

// Info is a free-form search progress report. Every field is optional;
// unrecognized leading tokens are tolerated (see DecodeOut), but
// unrecognized keys within a known "info" line are rejected.
type Info struct {
	Depth          lang.Optional[int64]
	SelDepth       lang.Optional[int64]
	Time           lang.Optional[int64]
	Nodes          lang.Optional[int64]
	Pv             []string
	MultiPV        lang.Optional[int64]
	Score          lang.Optional[Score]
	CurrMove       lang.Optional[string]
	CurrMoveNumber lang.Optional[int64]
	HashFull       lang.Optional[int64]
	Nps            lang.Optional[int64]
	TbHits         lang.Optional[int64]
	CpuLoad        lang.Optional[int64]
	String         lang.Optional[string]
	Refutation     map[string][]string
	CurrLine       []string
	CurrLineCpu    lang.Optional[int64]
}

func (Info) isOutputCommand() {}

func (c Info) Encode() string {
	var parts []string
	parts = append(parts, "info")
	if v, ok := c.Depth.V(); ok {
		parts = append(parts, "depth", strconv.FormatInt(v, 10))
	}
	if v, ok := c.SelDepth.V(); ok {
		parts = append(parts, "seldepth", strconv.FormatInt(v, 10))
	}
	if v, ok := c.Time.V(); ok {
		parts = append(parts, "time", strconv.FormatInt(v, 10))
	}
	if v, ok := c.Nodes.V(); ok {
		parts = append(parts, "nodes", strconv.FormatInt(v, 10))
	}
	if v, ok := c.MultiPV.V(); ok {
		parts = append(parts, "multipv", strconv.FormatInt(v, 10))
	}
	if v, ok := c.Score.V(); ok {
		parts = append(parts, v.encode())
	}
	if v, ok := c.CurrMove.V(); ok {
		parts = append(parts, "currmove", v)
	}
	if v, ok := c.CurrMoveNumber.V(); ok {
		parts = append(parts, "currmovenumber", strconv.FormatInt(v, 10))
	}
	if v, ok := c.HashFull.V(); ok {
		parts = append(parts, "hashfull", strconv.FormatInt(v, 10))
	}
	if v, ok := c.Nps.V(); ok {
		parts = append(parts, "nps", strconv.FormatInt(v, 10))
	}
	if v, ok := c.TbHits.V(); ok {
		parts = append(parts, "tbhits", strconv.FormatInt(v, 10))
	}
	if v, ok := c.CpuLoad.V(); ok {
		parts = append(parts, "cpuload", strconv.FormatInt(v, 10))
	}
	if len(c.Refutation) > 0 {
		parts = append(parts, "refutation")
		for move, continuation := range c.Refutation {
			parts = append(parts, move)
			parts = append(parts, continuation...)
		}
	}
	if len(c.CurrLine) > 0 {
		parts = append(parts, "currline")
		if v, ok := c.CurrLineCpu.V(); ok {
			parts = append(parts, strconv.FormatInt(v, 10))
		}
		parts = append(parts, c.CurrLine...)
	}
	if len(c.Pv) > 0 {
		parts = append(parts, "pv")
		parts = append(parts, c.Pv...)
	}
	// string must come last: everything after it is free text.
	if v, ok := c.String.V(); ok {
		parts = append(parts, "string", v)
	}
	return strings.Join(parts, " ")
}

// Option describes one engine-configurable option, as emitted during the
// uci/uciok handshake.
type Option struct {
	Name   OptionName
	Schema OptionSchema
}

func (Option) isOutputCommand() {}

func (c Option) Encode() string {
	s := fmt.Sprintf("option name %v type", c.Name)
	switch schema := c.Schema.(type) {
	case CheckSchema:
		s += fmt.Sprintf(" check default %t", schema.Default)
	case SpinSchema:
		s += fmt.Sprintf(" spin default %d min %d max %d", schema.Default, schema.Min, schema.Max)
	case ComboSchema:
		s += fmt.Sprintf(" combo default %s", schema.Default)
		for _, v := range schema.Var {
			s += " var " + v
		}
	case ButtonSchema:
		s += " button"
	case StringSchema:
		s += fmt.Sprintf(" string default %s", schema.Default)
	}
	return s
}

// DecodeOut parses a single engine-to-client line. It returns (nil, nil)
// both for a blank line and for a line whose leading token is not one of
// the recognized output commands, matching engines that emit vendor-
// specific chatter outside of "info string".
func DecodeOut(line string) (OutputCommand, error) {
	p, err := newScanner(line)
	if err != nil {
		return nil, err
	}

	tok, ok := p.nextToken()
	if !ok {
		return nil, nil
	}

	switch tok {
	case "id":
		return decodeID(p)
	case "uciok":
		if err := expectEnd(p); err != nil {
			return nil, err
		}
		return Uciok{}, nil
	case "readyok":
		if err := expectEnd(p); err != nil {
			return nil, err
		}
		return Readyok{}, nil
	case "bestmove":
		return decodeBestmove(p)
	case "info":
		return decodeInfo(p)
	case "option":
		return decodeOption(p)
	default:
		return nil, nil
	}
}

func decodeID(p *scanner) (OutputCommand, error) {
	tok, ok := p.nextToken()
	if !ok {
		return nil, ErrUnexpectedEndOfLine
	}
	switch tok {
	case "name":
		return IdName{Name: p.rest()}, nil
	case "author":
		return IdAuthor{Author: p.rest()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, tok)
	}
}

func decodeBestmove(p *scanner) (OutputCommand, error) {
	move, ok := p.nextToken()
	if !ok {
		return nil, ErrUnexpectedEndOfLine
	}

	var ponder lang.Optional[string]
	if next, ok := p.nextToken(); ok {
		if next != "ponder" {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, next)
		}
		v, ok := p.nextToken()
		if !ok {
			return nil, ErrUnexpectedEndOfLine
		}
		ponder = lang.Some(v)
	}

	return Bestmove{Move: move, Ponder: ponder}, nil
}

func decodeOption(p *scanner) (OutputCommand, error) {
	tok, ok := p.nextToken()
	if !ok || tok != "name" {
		return nil, ErrUnexpectedEndOfLine
	}

	name := p.takeUntil(func(t string) bool { return t == "type" })
	if name == "" {
		return nil, ErrUnexpectedEndOfLine
	}
	if next, ok := p.nextToken(); !ok || next != "type" {
		return nil, ErrUnexpectedEndOfLine
	}

	kind, ok := p.nextToken()
	if !ok {
		return nil, ErrUnexpectedEndOfLine
	}

	schema, err := decodeOptionSchema(p, kind)
	if err != nil {
		return nil, err
	}
	return Option{Name: NewOptionName(name), Schema: schema}, nil
}

func decodeOptionSchema(p *scanner, kind string) (OptionSchema, error) {
	switch kind {
	case "check":
		if tok, ok := p.nextToken(); !ok || tok != "default" {
			return nil, ErrUnexpectedEndOfLine
		}
		tok, ok := p.nextToken()
		if !ok {
			return nil, ErrUnexpectedEndOfLine
		}
		b, err := strconv.ParseBool(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a bool", ErrInvalidOptionValue, tok)
		}
		return CheckSchema{Default: b}, nil

	case "spin":
		var s SpinSchema
		for {
			tok, ok := p.nextToken()
			if !ok {
				break
			}
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			switch tok {
			case "default":
				s.Default = n
			case "min":
				s.Min = n
			case "max":
				s.Max = n
			default:
				return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, tok)
			}
		}
		return s, nil

	case "combo":
		isTrailer := func(t string) bool { return t == "var" || t == "default" }
		var def string
		var vars []string
		for {
			tok, ok := p.nextToken()
			if !ok {
				break
			}
			switch tok {
			case "default":
				def = p.takeUntil(isTrailer)
			case "var":
				vars = append(vars, p.takeUntil(isTrailer))
			default:
				return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, tok)
			}
		}
		return ComboSchema{Default: def, Var: vars}, nil

	case "button":
		return ButtonSchema{}, nil

	case "string":
		if tok, ok := p.nextToken(); !ok || tok != "default" {
			return nil, ErrUnexpectedEndOfLine
		}
		return StringSchema{Default: p.rest()}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, kind)
	}
}

func decodeInfo(p *scanner) (OutputCommand, error) {
	var c Info
	for {
		tok, ok := p.nextToken()
		if !ok {
			break
		}

		switch tok {
		case "depth":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.Depth = lang.Some(n)
		case "seldepth":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.SelDepth = lang.Some(n)
		case "time":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.Time = lang.Some(n)
		case "nodes":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.Nodes = lang.Some(n)
		case "multipv":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.MultiPV = lang.Some(n)
		case "currmovenumber":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.CurrMoveNumber = lang.Some(n)
		case "hashfull":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.HashFull = lang.Some(n)
		case "nps":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.Nps = lang.Some(n)
		case "tbhits":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.TbHits = lang.Some(n)
		case "cpuload":
			n, err := decodeInt(p)
			if err != nil {
				return nil, err
			}
			c.CpuLoad = lang.Some(n)
		case "currmove":
			v, ok := p.nextToken()
			if !ok {
				return nil, ErrUnexpectedEndOfLine
			}
			c.CurrMove = lang.Some(v)
		case "score":
			s, err := decodeScore(p)
			if err != nil {
				return nil, err
			}
			c.Score = lang.Some(s)
		case "pv":
			for {
				m, ok := p.peek()
				if !ok {
					break
				}
				p.nextToken()
				c.Pv = append(c.Pv, m)
			}
		case "refutation":
			key, ok := p.nextToken()
			if !ok {
				return nil, ErrUnexpectedEndOfLine
			}
			var continuation []string
			for {
				m, ok := p.peek()
				if !ok {
					break
				}
				p.nextToken()
				continuation = append(continuation, m)
			}
			c.Refutation = map[string][]string{key: continuation}
		case "currline":
			if cpu, ok := p.peek(); ok {
				if n, err := strconv.ParseInt(cpu, 10, 64); err == nil {
					p.nextToken()
					c.CurrLineCpu = lang.Some(n)
				}
			}
			for {
				m, ok := p.peek()
				if !ok {
					break
				}
				p.nextToken()
				c.CurrLine = append(c.CurrLine, m)
			}
		case "string":
			c.String = lang.Some(p.rest())
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedToken, tok)
		}
	}
	return c, nil
}

func decodeScore(p *scanner) (Score, error) {
	kind, ok := p.nextToken()
	if !ok || (kind != "cp" && kind != "mate") {
		return Score{}, ErrUnexpectedEndOfLine
	}
	n, err := decodeInt(p)
	if err != nil {
		return Score{}, err
	}

	var bound string
	if next, ok := p.peek(); ok && (next == "lowerbound" || next == "upperbound") {
		p.nextToken()
		bound = next
	}

	return Score{Kind: kind, Value: n, Bound: bound}, nil
}
