package uci

import (
	"fmt"
	"strconv"
)

// OptionName is a case-insensitive UCI option identifier. Two names compare
// and hash equal whenever they are equal after ASCII case-folding; display
// preserves the casing the name was constructed with.
type OptionName struct {
	raw string
}

// NewOptionName wraps a raw option name as read off the wire.
func NewOptionName(raw string) OptionName {
	return OptionName{raw: raw}
}

// Fold returns the canonical, case-insensitive form of the name: ASCII
// letters lowercased with a trailing sentinel byte so that names which
// differ only by a shorter/longer common prefix can never collide after
// folding, e.g. "Hash" and "Has" stay distinct.
func (n OptionName) Fold() string {
	b := []byte(n.raw)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b) + "\xff"
}

// Equal reports whether two option names are the same, ignoring case.
func (n OptionName) Equal(o OptionName) bool {
	return n.Fold() == o.Fold()
}

func (n OptionName) String() string {
	return n.raw
}

// SafeOptionNames is the fixed allowlist of options considered harmless for
// a remote client to set. Anything else is logged and dropped by the
// engine supervisor rather than forwarded to the child process.
var SafeOptionNames = []OptionName{
	NewOptionName("Hash"),
	NewOptionName("Threads"),
	NewOptionName("Ponder"),
	NewOptionName("MultiPV"),
	NewOptionName("UCI_ShowCurrLine"),
	NewOptionName("UCI_ShowRefutations"),
	NewOptionName("UCI_LimitStrength"),
	NewOptionName("UCI_Elo"),
	NewOptionName("UCI_AnalyseMode"),
	NewOptionName("UCI_Opponent"),
	NewOptionName("UCI_Chess960"),
	NewOptionName("Analysis Contempt"),
}

// IsSafeOption reports whether name is on the safe allowlist.
func IsSafeOption(name OptionName) bool {
	for _, safe := range SafeOptionNames {
		if safe.Equal(name) {
			return true
		}
	}
	return false
}

// OptionSchema is the tagged union of the five shapes a UCI "option" line
// can declare. Concrete types: CheckSchema, SpinSchema, ComboSchema,
// ButtonSchema, StringSchema.
type OptionSchema interface {
	isOptionSchema()
	// Validate parses a user-supplied string against this schema, returning
	// the typed OptionValue or ErrInvalidOptionValue.
	Validate(value string) (OptionValue, error)
}

// OptionValue is the typed result of validating a string against an
// OptionSchema. Concrete types: CheckValue, SpinValue, ComboValue,
// ButtonValue, StringValue.
type OptionValue interface {
	isOptionValue()
	String() string
}

// CheckSchema is a boolean option.
type CheckSchema struct {
	Default bool
}

func (CheckSchema) isOptionSchema() {}

func (s CheckSchema) Validate(value string) (OptionValue, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a bool", ErrInvalidOptionValue, value)
	}
	return CheckValue(b), nil
}

type CheckValue bool

func (CheckValue) isOptionValue() {}
func (v CheckValue) String() string {
	return strconv.FormatBool(bool(v))
}

// SpinSchema is an integer option with an inclusive range. The invariant
// Min <= Default <= Max must always hold.
type SpinSchema struct {
	Default, Min, Max int64
}

func (SpinSchema) isOptionSchema() {}

// LimitMax clamps Max (and Default, if necessary) down to k, preserving the
// Min <= Default <= Max invariant.
func (s SpinSchema) LimitMax(k int64) SpinSchema {
	if s.Max > k {
		s.Max = k
	}
	if s.Min > s.Max {
		s.Min = s.Max
	}
	if s.Default > s.Max {
		s.Default = s.Max
	}
	if s.Default < s.Min {
		s.Default = s.Min
	}
	return s
}

func (s SpinSchema) Validate(value string) (OptionValue, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidOptionValue, value)
	}
	if n < s.Min || n > s.Max {
		return nil, fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidOptionValue, n, s.Min, s.Max)
	}
	return SpinValue(n), nil
}

type SpinValue int64

func (SpinValue) isOptionValue() {}
func (v SpinValue) String() string {
	return strconv.FormatInt(int64(v), 10)
}

// ComboSchema is a string option restricted to a fixed, non-empty list of
// variants.
type ComboSchema struct {
	Default string
	Var     []string
}

func (ComboSchema) isOptionSchema() {}

func (s ComboSchema) Validate(value string) (OptionValue, error) {
	if value == s.Default {
		return ComboValue(value), nil
	}
	for _, v := range s.Var {
		if value == v {
			return ComboValue(value), nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a valid variant", ErrInvalidOptionValue, value)
}

type ComboValue string

func (ComboValue) isOptionValue() {}
func (v ComboValue) String() string {
	return string(v)
}

// ButtonSchema carries no value; sending it triggers an engine action.
type ButtonSchema struct{}

func (ButtonSchema) isOptionSchema() {}

func (ButtonSchema) Validate(value string) (OptionValue, error) {
	if value != "" {
		return nil, fmt.Errorf("%w: button option takes no value", ErrInvalidOptionValue)
	}
	return ButtonValue{}, nil
}

type ButtonValue struct{}

func (ButtonValue) isOptionValue() {}
func (ButtonValue) String() string {
	return ""
}

// StringSchema is a free-form text option.
type StringSchema struct {
	Default string
}

func (StringSchema) isOptionSchema() {}

func (s StringSchema) Validate(value string) (OptionValue, error) {
	return StringValue(value), nil
}

type StringValue string

func (StringValue) isOptionValue() {}
func (v StringValue) String() string {
	return string(v)
}
