package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PLN_ENV", filepath.Join(t.TempDir(), "none.env"))
	t.Setenv("ATOMSPACE_DRIVER", "memory")
	t.Setenv("RULESET_FILE", "")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRulesCmd(t *testing.T) {
	out, err := run(t, "rules")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 16)
	assert.Equal(t, "AndCreationRule:1", lines[0])
	assert.Equal(t, "NotEliminationRule", lines[15])

	out, err = run(t, "rules", "--transformations")
	require.NoError(t, err)
	assert.Contains(t, out, "BooleanTransformationRule:or-subset")
}

func TestSimplifyCmd(t *testing.T) {
	out, err := run(t, "simplify", `(AndLink (ConceptNode "A") (AndLink (ConceptNode "B") (ConceptNode "C")) (ConceptNode "D"))`)
	require.NoError(t, err)
	assert.Equal(t, `(AndLink (ConceptNode "A") (ConceptNode "B") (ConceptNode "C") (ConceptNode "D"))`+"\n", out)

	out, err = run(t, "--simplify", "legacy", "simplify", `(NotLink (NotLink (NotLink (ConceptNode "A"))))`)
	require.NoError(t, err)
	assert.Equal(t, `(NotLink (NotLink (ConceptNode "A")))`+"\n", out)

	_, err = run(t, "--simplify", "partial", "simplify", `(ConceptNode "A")`)
	assert.Error(t, err)
}

func TestApplyCmd(t *testing.T) {
	out, err := run(t, "apply", "OrEliminationRule:3",
		`(OrLink (ConceptNode "A") (ConceptNode "B") (ConceptNode "C") (stv 0.75 0.5))`)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `(ConceptNode "A") (stv 0.25 `), lines[0])

	_, err = run(t, "apply", "AndBreakdownRule", `(ConceptNode "A" (stv 0 0.5))`,
		`(AndLink (ConceptNode "A") (ConceptNode "B") (stv 0.1 0.5))`)
	assert.ErrorContains(t, err, "no inference")

	_, err = run(t, "apply", "NoSuchRule", `(ConceptNode "A")`)
	assert.ErrorContains(t, err, "rule not found")
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pln dev (unknown)\n", out)
}
