package lpa

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// RepairResult reports a best-effort reconstruction attempt. Fixed is only
// meaningful when OK is true; Problem names what was wrong either way.
type RepairResult struct {
	OK      bool
	Fixed   string
	Problem string
}

// Problem strings surfaced to the user alongside a proposed fix.
const (
	ProblemMissingPrefix    = "missing LPA: prefix"
	ProblemMisspelledPrefix = "misspelled LPA: prefix"
	ProblemMissingVersion   = "missing version number"
	ProblemReorderedFields  = "fields out of order"
	ProblemNotLPA           = "not a valid LPA format, manual correction required"
	ProblemNotESIM          = "unrecognized format, may not be eSIM data"
)

// reorderDelims splits loosely structured input during field reconstruction.
var reorderDelims = regexp.MustCompile(`[$,|; ]+`)

// Repair attempts to rebuild a malformed activation string. A rule only
// counts as a success if its output parses strictly, so the result is safe
// to hand back to Parse. Repair never mutates its input, tries a fixed rule
// list and always terminates. Already-valid input comes back unchanged.
//
// The caller is expected to show Problem and Fixed to the user and wait for
// confirmation; nothing here applies a fix silently.
func (p *Parser) Repair(input string) RepairResult {
	text := strings.TrimSpace(input)

	if _, err := p.Parse(text); err == nil {
		return RepairResult{OK: true, Fixed: text}
	}

	rules := []func(string) (string, string){
		p.repairMissingPrefix,
		p.repairMisspelledPrefix,
		p.repairMissingVersion,
		p.repairReorderedFields,
	}
	for _, rule := range rules {
		fixed, problem := rule(text)
		if fixed == "" {
			continue
		}
		if _, err := p.Parse(fixed); err == nil {
			return RepairResult{OK: true, Fixed: fixed, Problem: problem}
		}
	}

	if LooksLikeESIM(text) {
		return RepairResult{Problem: ProblemNotLPA}
	}
	return RepairResult{Problem: ProblemNotESIM}
}

// repairMissingPrefix handles "$"-delimited input that simply lacks the
// leading LPA: marker.
func (p *Parser) repairMissingPrefix(text string) (string, string) {
	if strings.HasPrefix(text, "LPA:") || !strings.Contains(text, "$") {
		return "", ""
	}
	if strings.HasPrefix(text, "1$") {
		return "LPA:" + text, ProblemMissingPrefix
	}
	return "LPA:1$" + text, ProblemMissingPrefix
}

// repairMisspelledPrefix rewrites a leading token close to "LPA:" in edit
// distance (LAP:, LPA;, lpa: and the like). Distance two covers a single
// transposition; the strict re-parse in Repair screens out false positives.
func (p *Parser) repairMisspelledPrefix(text string) (string, string) {
	if len(text) < 5 || !strings.Contains(text, "$") {
		return "", ""
	}
	head := text[:4]
	if head == "LPA:" {
		return "", ""
	}
	if levenshtein.ComputeDistance(strings.ToUpper(head), "LPA:") > 2 {
		return "", ""
	}
	return "LPA:" + text[4:], ProblemMisspelledPrefix
}

// repairMissingVersion inserts the version segment after a bare LPA: prefix.
func (p *Parser) repairMissingVersion(text string) (string, string) {
	if !strings.HasPrefix(text, "LPA:") || strings.HasPrefix(text, "LPA:1$") {
		return "", ""
	}
	return "LPA:1$" + strings.TrimPrefix(text, "LPA:"), ProblemMissingVersion
}

// repairReorderedFields scans loosely delimited segments for an address
// candidate (contains a dot) and a code candidate (code-shaped, no dot) and
// rebuilds the canonical string. A leftover segment becomes the confirmation
// code; version markers and stray prefixes are dropped.
func (p *Parser) repairReorderedFields(text string) (string, string) {
	body := strings.TrimPrefix(text, "LPA:")

	var address, code, confirmation string
	for _, seg := range reorderDelims.Split(body, -1) {
		seg = strings.TrimSpace(seg)
		switch {
		case seg == "" || prefixToken.MatchString(seg):
		case address == "" && strings.Contains(seg, "."):
			address = seg
		case code == "" && !strings.Contains(seg, ".") && p.codePattern.MatchString(seg):
			code = seg
		case confirmation == "":
			confirmation = seg
		}
	}
	if address == "" || code == "" {
		return "", ""
	}

	fixed := Profile{
		SMDPAddress:      address,
		ActivationCode:   code,
		ConfirmationCode: confirmation,
	}
	return fixed.String(), ProblemReorderedFields
}
