package chart

import (
	"errors"
	"fmt"
	"strings"
)

// Rule fires when Body sits in House.
type Rule struct {
	Code   string `json:"code" yaml:"code"`
	Reason string `json:"reason" yaml:"reason"`
	Body   Body   `json:"body" yaml:"body"`
	House  House  `json:"house" yaml:"house"`
}

// RuleHit is one matched rule.
type RuleHit struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// DefaultRules is the built-in rule corpus.
func DefaultRules() []Rule {
	return []Rule{
		{Code: "CAREER_SUN_10", Reason: "Sun in 10th house — leadership focus", Body: Sun, House: 10},
		{Code: "MARR_MARS_7", Reason: "Mars in 7th — partnership challenges", Body: Mars, House: 7},
	}
}

// Matches reports whether the rule's body is assigned to the rule's house.
func (r Rule) Matches(houses map[Body]House) bool {
	house, ok := houses[r.Body]
	return ok && house.Assigned() && house == r.House
}

// Validate checks a rule before it joins an engine.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return errors.New("rule code cannot be empty")
	}
	if !knownBody(r.Body) {
		return fmt.Errorf("rule %s: unknown body %q", r.Code, r.Body)
	}
	if !r.House.Assigned() {
		return fmt.Errorf("rule %s: house must be within [1,12], got %d", r.Code, r.House)
	}
	return nil
}

// Engine evaluates rules in definition order.
type Engine struct {
	rules []Rule
}

// NewEngine validates and copies the rules. Duplicate codes are rejected.
func NewEngine(rules []Rule) (*Engine, error) {
	seen := make(map[string]struct{}, len(rules))
	copied := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[r.Code]; dup {
			return nil, fmt.Errorf("duplicate rule code %s", r.Code)
		}
		seen[r.Code] = struct{}{}
		copied = append(copied, r)
	}
	return &Engine{rules: copied}, nil
}

// Rules returns a copy of the engine's rules.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate returns every matching rule in definition order. The result is never nil.
func (e *Engine) Evaluate(c Chart) []RuleHit {
	hits := make([]RuleHit, 0)
	for _, r := range e.rules {
		if r.Matches(c.Houses) {
			hits = append(hits, RuleHit{Code: r.Code, Reason: r.Reason})
		}
	}
	return hits
}

func knownBody(b Body) bool {
	for _, candidate := range Bodies {
		if candidate == b {
			return true
		}
	}
	return false
}
