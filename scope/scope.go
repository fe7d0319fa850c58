// Package scope implements the identifier environment of spec §4.6 and §3
// ("Scope", "Settings"): a tree of write-once bindings with inherited,
// locally-overridable settings, plus a monotonic counter for auto-generated
// intermediate names. Path resolution and re-binding rules follow spec
// §4.6 exactly; DepGraph (depgraph.go) is the batch-verification scheduling
// companion, kept in this package because it operates over names bound
// here.
package scope

import (
	"regexp"

	"github.com/nqpv-lang/nqpv/nqerr"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Settings is the record spec §3 attaches to every scope and inherits into
// subscopes at creation time.
type Settings struct {
	EPS               float64
	SDPPrecision      float64
	Silent            bool
	IdenticalVarCheck bool
	OptPreserving     bool
}

// DefaultSettings returns the settings a freshly created root scope starts
// with, matching the tolerances used throughout this module's tests and
// examples.
func DefaultSettings() Settings {
	return Settings{
		EPS:               1e-9,
		SDPPrecision:      1e-7,
		Silent:            false,
		IdenticalVarCheck: true,
		OptPreserving:     true,
	}
}

// Scope is a mapping from identifier to bound value, with a parent pointer;
// lookup walks to the root (spec §3 "Scope").
type Scope struct {
	parent   *Scope
	bindings map[string]interface{}
	settings Settings
	counter  int
	children map[string]*Scope
}

// NewRoot creates a root scope with the given settings and no parent.
func NewRoot(settings Settings) *Scope {
	return &Scope{
		bindings: make(map[string]interface{}),
		settings: settings,
		children: make(map[string]*Scope),
	}
}

// NewChild creates a named subscope of s, inheriting s's settings at
// creation time (spec §4.6 "a scope inherits settings from its parent at
// creation; subsequent setting updates are local").
func (s *Scope) NewChild(name string) (*Scope, error) {
	if err := validateIdentifier(name); err != nil {
		return nil, err
	}
	if _, exists := s.bindings[name]; exists {
		return nil, nqerr.Semanticf("identifier %q is already bound in this scope", name)
	}
	child := &Scope{
		parent:   s,
		bindings: make(map[string]interface{}),
		settings: s.settings,
		children: make(map[string]*Scope),
	}
	s.children[name] = child
	s.bindings[name] = child
	return child, nil
}

// Settings returns s's own settings record (not the parent's).
func (s *Scope) Settings() Settings { return s.settings }

// SetSetting updates one of s's settings locally; it does not affect
// ancestors or scopes already created from s (spec §4.6).
func (s *Scope) SetSetting(apply func(*Settings)) { apply(&s.settings) }

// Bind writes value under name in s. Re-binding an already-bound identifier
// is an error (spec §3 Invariants, §4.6).
func (s *Scope) Bind(name string, value interface{}) error {
	if err := validateIdentifier(name); err != nil {
		return err
	}
	if _, exists := s.bindings[name]; exists {
		return nqerr.Semanticf("identifier %q is already bound in this scope", name)
	}
	s.bindings[name] = value
	return nil
}

// BoundNames returns the identifiers bound directly in s (not ancestors),
// in no particular order. Used by the transformer's IDENTICAL_VAR_CHECK
// scan over previously named intermediates (spec §4.4 "Naming").
func (s *Scope) BoundNames() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	return names
}

// Lookup resolves a single (non-dotted) identifier in s or an ancestor,
// walking to the root (spec §3 "Lookup walks to the root").
func (s *Scope) Lookup(name string) (interface{}, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Resolve walks a dotted path left-to-right, restarting lookup in each
// named sub-scope (spec §4.6 "Path resolution walks dotted names
// left-to-right, restarting lookup in the named sub-scope"). Name
// resolution never crosses into a sibling scope: once resolution descends
// into a child, only that child (and its own children) is searched for the
// remainder of the path.
func (s *Scope) Resolve(path []string) (interface{}, error) {
	if len(path) == 0 {
		return nil, nqerr.Semanticf("empty identifier path")
	}
	cur := s
	for i, name := range path {
		var v interface{}
		var ok bool
		if i == 0 {
			v, ok = cur.Lookup(name)
		} else {
			v, ok = cur.bindings[name]
		}
		if !ok {
			return nil, nqerr.Semanticf("undefined identifier %q", name)
		}
		if i == len(path)-1 {
			return v, nil
		}
		sub, ok := v.(*Scope)
		if !ok {
			return nil, nqerr.Semanticf("%q is not a sub-scope, cannot resolve %q within it", name, path[i+1])
		}
		cur = sub
	}
	return nil, nqerr.Semanticf("unreachable")
}

// FreshName returns the next auto-generated VARi name for this scope and
// advances its counter (spec §3 "Auto-generated names (VARi) are produced
// by a monotonic counter on the owning scope"). The counter and any
// user-chosen names share one namespace: FreshName skips any VARi already
// bound by a user, preserving the invariant that "the set of generated
// names is disjoint from user-bound names".
func (s *Scope) FreshName() string {
	for {
		name := varName(s.counter)
		s.counter++
		if _, exists := s.bindings[name]; !exists {
			return name
		}
	}
}

func varName(i int) string {
	const digits = "0123456789"
	if i == 0 {
		return "VAR0"
	}
	buf := make([]byte, 0, 8)
	for i > 0 {
		buf = append(buf, digits[i%10])
		i /= 10
	}
	for l, r := 0, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	return "VAR" + string(buf)
}

func validateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return nqerr.Semanticf("invalid identifier %q (must match [A-Za-z_][A-Za-z0-9_]*)", name)
	}
	return nil
}
