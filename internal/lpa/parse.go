package lpa

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Activation-code length bounds. Carrier matching IDs in the wild range from
// short numeric tokens to long dash-grouped strings; the permissive lower
// bound is the default and both ends are overridable through configuration.
const (
	DefaultMinCodeLen = 5
	DefaultMaxCodeLen = 50
)

var (
	ErrEmptyInput            = errors.New("empty input")
	ErrMalformedLPA          = errors.New("malformed LPA string")
	ErrInsufficientFields    = errors.New("insufficient fields")
	ErrUnrecognizedFormat    = errors.New("unrecognized format")
	ErrInvalidAddress        = errors.New("invalid SM-DP+ address")
	ErrInvalidActivationCode = errors.New("invalid activation code")
)

// domainPattern: dot-separated labels of alphanumerics and hyphens, final
// label at least two characters.
var domainPattern = regexp.MustCompile(`^[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z0-9-]{2,}$`)

// prefixToken matches tokens that are format markers rather than field data:
// "LPA", "LPA1", "LPA:", "LPA:1" or a bare version "1".
var prefixToken = regexp.MustCompile(`^(?i:lpa:?1?|1)$`)

// fallbackDelims are tried in priority order when the input has no '$'.
var fallbackDelims = []string{" ", ",", "|", ";", "\t", "\n"}

// Parser parses and repairs LPA activation strings. It is stateless after
// construction and safe for concurrent use. Construct one and hand it to
// whatever layer needs it; there is no package-level instance.
type Parser struct {
	minCodeLen  int
	maxCodeLen  int
	codePattern *regexp.Regexp
}

// NewParser returns a Parser with the default code-length bounds.
func NewParser() *Parser {
	return NewParserWithLimits(DefaultMinCodeLen, DefaultMaxCodeLen)
}

// NewParserWithLimits returns a Parser with explicit activation-code length
// bounds. Out-of-range values fall back to the defaults.
func NewParserWithLimits(minLen, maxLen int) *Parser {
	if minLen <= 0 {
		minLen = DefaultMinCodeLen
	}
	if maxLen < minLen {
		maxLen = DefaultMaxCodeLen
	}
	return &Parser{
		minCodeLen:  minLen,
		maxCodeLen:  maxLen,
		codePattern: regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9-]{%d,%d}$`, minLen, maxLen)),
	}
}

// Parse converts free-form input into a Profile. Recognized shapes, first
// match wins:
//
//	LPA:1$<address>$<code>[$<confirmation>]   full form
//	1$<address>$<code>[$<confirmation>]       prefix-less simplified form
//	<address>$<code>[$<confirmation>]         bare form
//	<address><delim><code>[<delim><conf>]     space/comma/pipe/semicolon/tab/newline
//
// Malformed input never panics; failures come back wrapping one of the
// sentinel errors above.
func (p *Parser) Parse(input string) (Profile, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return Profile{}, ErrEmptyInput
	}

	var prof Profile
	switch {
	case strings.HasPrefix(text, "LPA:"):
		segs := strings.Split(strings.TrimPrefix(text, "LPA:"), "$")
		if segs[0] != "1" || len(segs) < 3 {
			return Profile{}, fmt.Errorf("%w: %q", ErrMalformedLPA, text)
		}
		prof = profileFromSegments(segs[1:])
	case strings.Contains(text, "$"):
		segs := strings.Split(text, "$")
		switch {
		case segs[0] == "1" && len(segs) >= 3:
			prof = profileFromSegments(segs[1:])
		case len(segs) >= 2:
			prof = profileFromSegments(segs)
		default:
			return Profile{}, fmt.Errorf("%w: got %d", ErrInsufficientFields, len(segs))
		}
	default:
		segs, found := splitFallback(text)
		if segs == nil {
			if found {
				return Profile{}, fmt.Errorf("%w: %q", ErrInsufficientFields, text)
			}
			return Profile{}, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, text)
		}
		prof = profileFromSegments(segs)
	}

	prof.Raw = text
	if !domainPattern.MatchString(prof.SMDPAddress) {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidAddress, prof.SMDPAddress)
	}
	if !p.codePattern.MatchString(prof.ActivationCode) {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidActivationCode, prof.ActivationCode)
	}
	return prof, nil
}

// Validate checks a profile at the generate boundary. The grammar has no
// escaping, so field values containing the '$' delimiter are rejected rather
// than serialized into a string that would not round-trip.
func (p *Parser) Validate(prof Profile) error {
	if !domainPattern.MatchString(prof.SMDPAddress) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, prof.SMDPAddress)
	}
	if !p.codePattern.MatchString(prof.ActivationCode) {
		return fmt.Errorf("%w: %q", ErrInvalidActivationCode, prof.ActivationCode)
	}
	if strings.ContainsAny(prof.ConfirmationCode, "$ \t\n") {
		return fmt.Errorf("confirmation code contains delimiter characters: %q", prof.ConfirmationCode)
	}
	return nil
}

func profileFromSegments(segs []string) Profile {
	prof := Profile{
		SMDPAddress:    strings.TrimSpace(segs[0]),
		ActivationCode: strings.TrimSpace(segs[1]),
	}
	if len(segs) > 2 {
		prof.ConfirmationCode = strings.TrimSpace(segs[2])
	}
	return prof
}

// splitFallback tries the alternate delimiters in priority order. It returns
// the segments of the first delimiter yielding at least two non-blank fields,
// and whether any delimiter was present at all.
func splitFallback(text string) (segs []string, delimFound bool) {
	for _, delim := range fallbackDelims {
		if !strings.Contains(text, delim) {
			continue
		}
		delimFound = true
		var fields []string
		for _, s := range strings.Split(text, delim) {
			if s = strings.TrimSpace(s); s != "" {
				fields = append(fields, s)
			}
		}
		// A stray leading marker ("LPA1 host code") is not field data.
		if len(fields) > 2 && prefixToken.MatchString(fields[0]) {
			fields = fields[1:]
		}
		if len(fields) >= 2 {
			return fields, true
		}
	}
	return nil, delimFound
}
