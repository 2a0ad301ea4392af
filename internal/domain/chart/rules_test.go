package chart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngineEvaluateDefinitionOrder(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	require.NoError(t, err)

	houses := map[Body]House{Mars: 7, Moon: 3, Sun: 10}
	hits := engine.Evaluate(Chart{Houses: houses})
	require.Equal(t, []RuleHit{
		{Code: "CAREER_SUN_10", Reason: "Sun in 10th house — leadership focus"},
		{Code: "MARR_MARS_7", Reason: "Mars in 7th — partnership challenges"},
	}, hits)

	reordered := map[Body]House{}
	for _, b := range []Body{Sun, Moon, Mars} {
		reordered[b] = houses[b]
	}
	require.Equal(t, hits, engine.Evaluate(Chart{Houses: reordered}))
}

func TestEngineEvaluateNoMatches(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	require.NoError(t, err)

	hits := engine.Evaluate(Chart{Houses: map[Body]House{Sun: 9, Mars: 8}})
	require.NotNil(t, hits)
	require.Empty(t, hits)
}

func TestEngineUnassignedNeverMatches(t *testing.T) {
	engine, err := NewEngine([]Rule{{Code: "SUN_UNASSIGNED", Reason: "never", Body: Sun, House: 10}})
	require.NoError(t, err)

	houses := map[Body]House{}
	for _, b := range Bodies {
		houses[b] = Unassigned
	}
	require.Empty(t, engine.Evaluate(Chart{Houses: houses}))
	require.Empty(t, engine.Evaluate(Chart{}))
}

func TestEngineRulesAreAdditive(t *testing.T) {
	rules := append(DefaultRules(), Rule{Code: "MOON_4", Reason: "Moon at home", Body: Moon, House: 4})
	engine, err := NewEngine(rules)
	require.NoError(t, err)

	hits := engine.Evaluate(Chart{Houses: map[Body]House{Sun: 10, Moon: 4}})
	require.Len(t, hits, 2)
	require.Equal(t, "CAREER_SUN_10", hits[0].Code)
	require.Equal(t, "MOON_4", hits[1].Code)
}

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		want  string
	}{
		{name: "empty code", rules: []Rule{{Body: Sun, House: 1}}, want: "rule code cannot be empty"},
		{name: "unknown body", rules: []Rule{{Code: "X", Body: "pluto", House: 1}}, want: `rule X: unknown body "pluto"`},
		{name: "house out of range", rules: []Rule{{Code: "X", Body: Sun, House: 13}}, want: "rule X: house must be within [1,12], got 13"},
		{name: "duplicate", rules: []Rule{{Code: "X", Body: Sun, House: 1}, {Code: "X", Body: Moon, House: 2}}, want: "duplicate rule code X"},
	}
	for _, tt := range tests {
		_, err := NewEngine(tt.rules)
		require.EqualError(t, err, tt.want, tt.name)
	}
}

func TestEngineRulesReturnsCopy(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	require.NoError(t, err)
	rules := engine.Rules()
	rules[0].Code = "MUTATED"
	require.Equal(t, "CAREER_SUN_10", engine.Rules()[0].Code)
}
