package lpa

// Profile is the parsed representation of an LPA activation string
// (SGP.22 activation code).
type Profile struct {
	SMDPAddress      string
	ActivationCode   string
	ConfirmationCode string // empty when the carrier requires none
	Raw              string // original input, kept for diagnostics
}

// String renders the canonical form LPA:1$<address>$<code>, appending
// $<confirmation> only when a confirmation code is present.
func (p Profile) String() string {
	s := "LPA:1$" + p.SMDPAddress + "$" + p.ActivationCode
	if p.ConfirmationCode != "" {
		s += "$" + p.ConfirmationCode
	}
	return s
}

// Equal compares the semantic fields. Raw is diagnostic only and excluded,
// so a profile parsed back from its own String() is Equal to the original.
func (p Profile) Equal(o Profile) bool {
	return p.SMDPAddress == o.SMDPAddress &&
		p.ActivationCode == o.ActivationCode &&
		p.ConfirmationCode == o.ConfirmationCode
}
