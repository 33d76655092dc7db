// Package argmatch matches positional command-line arguments against command
// shapes.
//
// A shape is an ordered list of tokens. A literal token accepts any one of a
// set of alternatives, written "list|ls|l". A parameter token accepts any
// value and binds it to a name, written "<space>".
package argmatch

import (
	"fmt"
	"strings"
)

// Token is one position of a Shape.
type Token struct {
	alts  []string // set for literal tokens
	param string   // set for parameter tokens
}

// Literal returns a token matching any of the '|'-separated alternatives.
func Literal(alts string) Token {
	return Token{alts: strings.Split(alts, "|")}
}

// Param returns a token matching any value and binding it to name.
func Param(name string) Token {
	return Token{param: name}
}

// IsParam reports whether t is a parameter token.
func (t Token) IsParam() bool { return t.param != "" }

// Name returns the parameter name, or "" for literal tokens.
func (t Token) Name() string { return t.param }

// Accepts reports whether arg is allowed at this position.
func (t Token) Accepts(arg string) bool {
	if t.IsParam() {
		return true
	}
	for _, alt := range t.alts {
		if alt == arg {
			return true
		}
	}
	return false
}

func (t Token) String() string {
	if t.IsParam() {
		return "<" + t.param + ">"
	}
	return strings.Join(t.alts, "|")
}

// Shape is an immutable positional pattern.
type Shape struct {
	tokens []Token
}

// New builds a shape from tokens. It panics if two parameters share a name.
func New(tokens ...Token) *Shape {
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if !t.IsParam() {
			continue
		}
		if seen[t.param] {
			panic(fmt.Sprintf("argmatch: parameter %s declared twice", t.param))
		}
		seen[t.param] = true
	}
	return &Shape{tokens: append([]Token(nil), tokens...)}
}

// Parse builds a shape from its serialized form, for example
// "rename|rn <old> <new>". Tokens are separated by whitespace.
func Parse(pattern string) (*Shape, error) {
	fields := strings.Fields(pattern)
	tokens := make([]Token, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, "<") && strings.HasSuffix(f, ">") {
			name := f[1 : len(f)-1]
			if name == "" {
				return nil, fmt.Errorf("argmatch.Parse: empty parameter name in %q", pattern)
			}
			if seen[name] {
				return nil, fmt.Errorf("argmatch.Parse: parameter %s declared twice in %q", name, pattern)
			}
			seen[name] = true
			tokens = append(tokens, Param(name))
			continue
		}
		tokens = append(tokens, Literal(f))
	}
	return &Shape{tokens: tokens}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string) *Shape {
	s, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of positions in the shape.
func (s *Shape) Len() int { return len(s.tokens) }

// Matches reports whether args has exactly one value per position and every
// literal position holds one of its alternatives.
func (s *Shape) Matches(args []string) bool {
	if len(args) != len(s.tokens) {
		return false
	}
	for i, t := range s.tokens {
		if !t.Accepts(args[i]) {
			return false
		}
	}
	return true
}

// Params maps each parameter name to its argument. args must match s.
func (s *Shape) Params(args []string) map[string]string {
	params := make(map[string]string)
	for i, t := range s.tokens {
		if t.IsParam() && i < len(args) {
			params[t.param] = args[i]
		}
	}
	return params
}

// Render returns the human-readable form of the shape.
func (s *Shape) Render() string {
	parts := make([]string, len(s.tokens))
	for i, t := range s.tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func (s *Shape) String() string { return s.Render() }
