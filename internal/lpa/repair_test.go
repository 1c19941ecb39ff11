package lpa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRepairValidInputUnchanged(t *testing.T) {
	t.Parallel()
	p := NewParser()

	for _, input := range []string{
		"LPA:1$t-mobile.idemia.io$1BCH0-T6TKQ-PWCXS-FM6OD",
		"1$smdp.example.com$ABC12345",
		"smdp.example.com$ABC12345$SECRET9",
		"smdp.example.com ABC12345",
	} {
		res := p.Repair(input)
		require.True(t, res.OK, "repair rejected valid input %q: %s", input, res.Problem)
		require.Equal(t, input, res.Fixed)
		require.Empty(t, res.Problem)
	}
}

func TestRepairIdempotent(t *testing.T) {
	t.Parallel()
	p := NewParser()

	first := p.Repair("LPA:t-mobile.idemia.io$ABC12345")
	require.True(t, first.OK)

	second := p.Repair(first.Fixed)
	require.True(t, second.OK)
	require.Equal(t, first.Fixed, second.Fixed, "second repair must not double-fix")
	require.Empty(t, second.Problem)
}

func TestRepairMissingVersion(t *testing.T) {
	t.Parallel()
	p := NewParser()

	res := p.Repair("LPA:t-mobile.idemia.io$ABC12345")
	require.True(t, res.OK)
	require.Equal(t, "LPA:1$t-mobile.idemia.io$ABC12345", res.Fixed)
	require.Equal(t, ProblemMissingVersion, res.Problem)
}

func TestRepairMisspelledPrefix(t *testing.T) {
	t.Parallel()
	p := NewParser()

	cases := map[string]string{
		"transposed": "LAP:1$t-mobile.idemia.io$ABC12345",
		"semicolon":  "LPA;1$t-mobile.idemia.io$ABC12345",
		"lowercase":  "lpa:1$t-mobile.idemia.io$ABC12345",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res := p.Repair(input)
			require.True(t, res.OK, "problem: %s", res.Problem)
			require.Equal(t, "LPA:1$t-mobile.idemia.io$ABC12345", res.Fixed)
			require.Equal(t, ProblemMisspelledPrefix, res.Problem)
		})
	}
}

func TestRepairReorderedFields(t *testing.T) {
	t.Parallel()
	p := NewParser()

	res := p.Repair("ABC12345$t-mobile.idemia.io")
	require.True(t, res.OK)
	require.Equal(t, "LPA:1$t-mobile.idemia.io$ABC12345", res.Fixed)
	require.Equal(t, ProblemReorderedFields, res.Problem)
}

func TestRepairReorderedWithMarkerAndConfirmation(t *testing.T) {
	t.Parallel()
	p := NewParser()

	// Marker dropped, first code-shaped segment becomes the activation code,
	// the leftover becomes the confirmation code.
	res := p.Repair("LPA1$1BCH0-T6TKQ$t-mobile.idemia.io$SECRET9")
	require.True(t, res.OK, "problem: %s", res.Problem)
	require.Equal(t, "LPA:1$t-mobile.idemia.io$1BCH0-T6TKQ$SECRET9", res.Fixed)
	require.Equal(t, ProblemReorderedFields, res.Problem)
}

func TestRepairFailures(t *testing.T) {
	t.Parallel()
	p := NewParser()

	looksESIM := p.Repair("esim activation data goes here")
	require.False(t, looksESIM.OK)
	require.Equal(t, ProblemNotLPA, looksESIM.Problem)
	require.Empty(t, looksESIM.Fixed)

	unrelated := p.Repair("hello world")
	require.False(t, unrelated.OK)
	require.Equal(t, ProblemNotESIM, unrelated.Problem)
}
