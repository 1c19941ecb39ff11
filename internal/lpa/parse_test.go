package lpa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFullForm(t *testing.T) {
	t.Parallel()
	p := NewParser()

	prof, err := p.Parse("LPA:1$t-mobile.idemia.io$1BCH0-T6TKQ-PWCXS-FM6OD")
	require.NoError(t, err)
	require.Equal(t, "t-mobile.idemia.io", prof.SMDPAddress)
	require.Equal(t, "1BCH0-T6TKQ-PWCXS-FM6OD", prof.ActivationCode)
	require.Empty(t, prof.ConfirmationCode)
	require.Equal(t, "LPA:1$t-mobile.idemia.io$1BCH0-T6TKQ-PWCXS-FM6OD", prof.Raw)
}

func TestParseConfirmationCode(t *testing.T) {
	t.Parallel()
	p := NewParser()

	prof, err := p.Parse("LPA:1$smdp.example.com$ABC12345$SECRET9")
	require.NoError(t, err)
	require.Equal(t, "smdp.example.com", prof.SMDPAddress)
	require.Equal(t, "ABC12345", prof.ActivationCode)
	require.Equal(t, "SECRET9", prof.ConfirmationCode)
}

func TestParseSimplifiedForm(t *testing.T) {
	t.Parallel()
	p := NewParser()

	prof, err := p.Parse("1$t-mobile.idemia.io$1BCH0-T6TKQ-PWCXS-FM6OD")
	require.NoError(t, err)
	require.Equal(t, "t-mobile.idemia.io", prof.SMDPAddress)
	require.Equal(t, "1BCH0-T6TKQ-PWCXS-FM6OD", prof.ActivationCode)
	require.Empty(t, prof.ConfirmationCode)
}

func TestParseBareForm(t *testing.T) {
	t.Parallel()
	p := NewParser()

	prof, err := p.Parse("t-mobile.idemia.io$1BCH0-T6TKQ-PWCXS-FM6OD")
	require.NoError(t, err)
	require.Equal(t, "t-mobile.idemia.io", prof.SMDPAddress)
	require.Equal(t, "1BCH0-T6TKQ-PWCXS-FM6OD", prof.ActivationCode)
}

func TestParseTrimsWhitespace(t *testing.T) {
	t.Parallel()
	p := NewParser()

	prof, err := p.Parse("  LPA:1$smdp.example.com$ABC12345 \n")
	require.NoError(t, err)
	require.Equal(t, "smdp.example.com", prof.SMDPAddress)
	require.Equal(t, "LPA:1$smdp.example.com$ABC12345", prof.Raw)
}

func TestParseAlternateDelimiters(t *testing.T) {
	t.Parallel()
	p := NewParser()

	cases := map[string]string{
		"space":     "smdp.example.com ABC12345",
		"comma":     "smdp.example.com,ABC12345",
		"pipe":      "smdp.example.com|ABC12345",
		"semicolon": "smdp.example.com;ABC12345",
		"tab":       "smdp.example.com\tABC12345",
		"newline":   "smdp.example.com\nABC12345\nCONF99",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			prof, err := p.Parse(input)
			require.NoError(t, err)
			require.Equal(t, "smdp.example.com", prof.SMDPAddress)
			require.Equal(t, "ABC12345", prof.ActivationCode)
		})
	}
}

func TestParseSkipsLeadingMarkerToken(t *testing.T) {
	t.Parallel()
	p := NewParser()

	// "LPA1" is a mangled format marker, not a field.
	prof, err := p.Parse("LPA1 t-mobile.idemia.io ABC12345")
	require.NoError(t, err)
	require.Equal(t, "t-mobile.idemia.io", prof.SMDPAddress)
	require.Equal(t, "ABC12345", prof.ActivationCode)
	require.Empty(t, prof.ConfirmationCode)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	p := NewParser()

	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmptyInput},
		{"blank", "   \n\t ", ErrEmptyInput},
		{"prefix without version", "LPA:t-mobile.idemia.io$ABC12345", ErrMalformedLPA},
		{"prefix too few segments", "LPA:1$smdp.example.com", ErrMalformedLPA},
		{"delimiter but one field", "t-mobile.idemia.io,", ErrInsufficientFields},
		{"no delimiter at all", "hello", ErrUnrecognizedFormat},
		{"bad address", "LPA:1$not_a_domain$ABC12345", ErrInvalidAddress},
		{"address without dot", "localhost$ABC12345", ErrInvalidAddress},
		{"code too short", "LPA:1$smdp.example.com$ab1", ErrInvalidActivationCode},
		{"code bad characters", "LPA:1$smdp.example.com$ABC_12345", ErrInvalidActivationCode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := p.Parse(tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParserLimits(t *testing.T) {
	t.Parallel()
	strict := NewParserWithLimits(8, 50)

	_, err := strict.Parse("LPA:1$smdp.example.com$ABC12")
	require.ErrorIs(t, err, ErrInvalidActivationCode)

	prof, err := strict.Parse("LPA:1$smdp.example.com$ABC12345")
	require.NoError(t, err)
	require.Equal(t, "ABC12345", prof.ActivationCode)

	// Out-of-range limits fall back to defaults.
	loose := NewParserWithLimits(0, -1)
	_, err = loose.Parse("LPA:1$smdp.example.com$ABC12")
	require.NoError(t, err)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	p := NewParser()

	profiles := []Profile{
		{SMDPAddress: "t-mobile.idemia.io", ActivationCode: "1BCH0-T6TKQ-PWCXS-FM6OD"},
		{SMDPAddress: "smdp.example.com", ActivationCode: "ABC12345", ConfirmationCode: "SECRET9"},
		{SMDPAddress: "rsp.truphone.com", ActivationCode: "QR-G-5C-1LS1W1-058G9P7"},
	}
	for _, orig := range profiles {
		got, err := p.Parse(orig.String())
		require.NoError(t, err)
		require.True(t, got.Equal(orig), "round trip changed %s", orig.String())
		require.Equal(t, orig.String(), got.String())
	}
}

func TestValidateRejectsDelimiterInFields(t *testing.T) {
	t.Parallel()
	p := NewParser()

	require.NoError(t, p.Validate(Profile{
		SMDPAddress:      "smdp.example.com",
		ActivationCode:   "ABC12345",
		ConfirmationCode: "SECRET9",
	}))

	require.Error(t, p.Validate(Profile{
		SMDPAddress:      "smdp.example.com",
		ActivationCode:   "ABC12345",
		ConfirmationCode: "SECRET$9",
	}))
	require.ErrorIs(t, p.Validate(Profile{
		SMDPAddress:    "not_a_domain",
		ActivationCode: "ABC12345",
	}), ErrInvalidAddress)
	require.ErrorIs(t, p.Validate(Profile{
		SMDPAddress:    "smdp.example.com",
		ActivationCode: "a$b",
	}), ErrInvalidActivationCode)
}
