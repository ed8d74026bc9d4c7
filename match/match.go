/*
Package match resolves node names against extended regular expressions.

Patterns follow the usual extended syntax: character classes, alternation,
anchors, quantifiers, plus the backtracking constructs (lookaround,
backreferences) offered by regexp2. Patterns are compiled once, before any
tree traversal starts; a pattern that does not compile is rejected with
ErrInvalidPattern.

An empty name stands for "no name" and never matches, not even the pattern
`^$`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package match

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctree.match'.
func tracer() tracing.Trace {
	return tracing.Select("ctree.match")
}

// ErrInvalidPattern is returned if a pattern does not compile.
var ErrInvalidPattern = errors.New("invalid name pattern")

// Matcher tests node names against a compiled pattern.
// A Matcher is immutable after compilation.
type Matcher struct {
	pattern string
	re      *regexp2.Regexp
}

// Option is a type to help configuring a matcher at compile time.
type Option struct {
	config func(regexp2.RegexOptions) regexp2.RegexOptions
}

// IgnoreCase makes the match case-insensitive.
func IgnoreCase() Option {
	return Option{config: func(o regexp2.RegexOptions) regexp2.RegexOptions {
		return o | regexp2.IgnoreCase
	}}
}

// RE2 restricts the pattern syntax to what RE2 (and Go's regexp) accepts.
func RE2() Option {
	return Option{config: func(o regexp2.RegexOptions) regexp2.RegexOptions {
		return o | regexp2.RE2
	}}
}

// Compile compiles a pattern. It fails with ErrInvalidPattern if the pattern
// is malformed.
func Compile(pattern string, opts ...Option) (*Matcher, error) {
	var flags regexp2.RegexOptions = regexp2.None
	for _, option := range opts {
		flags = option.config(flags)
	}
	re, err := regexp2.Compile(pattern, flags)
	if err != nil {
		tracer().Infof("rejecting name pattern %q: %v", pattern, err)
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	return &Matcher{pattern: pattern, re: re}, nil
}

// MustCompile is like Compile but panics on malformed patterns.
// It simplifies initialization of global matchers.
func MustCompile(pattern string, opts ...Option) *Matcher {
	m, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches reports whether name matches the pattern. An empty name never
// matches.
func (m *Matcher) Matches(name string) bool {
	if m == nil || name == "" {
		return false
	}
	ok, err := m.re.MatchString(name)
	if err != nil { // only possible on timeout
		tracer().Errorf("matching %q against %q: %v", name, m.pattern, err)
		return false
	}
	return ok
}

// Pattern returns the source text of the pattern.
func (m *Matcher) Pattern() string {
	if m == nil {
		return ""
	}
	return m.pattern
}

func (m *Matcher) String() string {
	return fmt.Sprintf("/%s/", m.Pattern())
}
