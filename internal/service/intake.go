package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arj/esimqr/internal/database/repository"
	"github.com/arj/esimqr/internal/lpa"
	"github.com/arj/esimqr/internal/qr"
)

// IntakeStatus classifies an inspected payload.
type IntakeStatus string

const (
	IntakeParsed     IntakeStatus = "parsed"
	IntakeRepairable IntakeStatus = "repairable"
	IntakeFailed     IntakeStatus = "failed"
)

// Intake is the outcome of inspecting a payload. A repairable intake carries
// the proposed fix and the problem description; it must be confirmed by the
// user before Accept runs on it — repair is never applied silently.
type Intake struct {
	Status  IntakeStatus
	Payload string
	Profile lpa.Profile
	Fixed   string
	Problem string
}

// IntakeService turns raw payloads (QR decodes, pasted text) into saved
// profiles and logs every attempt.
type IntakeService struct {
	Parser   *lpa.Parser
	Profiles *repository.ProfileRepo
	Scans    *repository.ScanRepo
}

// Inspect parses the payload, falling back to the repair advisor on failure.
// Pure; the caller decides whether to Accept or Reject the result.
func (s *IntakeService) Inspect(payload string) Intake {
	prof, err := s.Parser.Parse(payload)
	if err == nil {
		return Intake{Status: IntakeParsed, Payload: payload, Profile: prof}
	}

	res := s.Parser.Repair(payload)
	if !res.OK {
		return Intake{Status: IntakeFailed, Payload: payload, Problem: res.Problem}
	}
	fixed, err := s.Parser.Parse(res.Fixed)
	if err != nil {
		// Repair reports OK only after a successful re-parse, so this is a bug guard.
		return Intake{Status: IntakeFailed, Payload: payload, Problem: res.Problem}
	}
	return Intake{
		Status:  IntakeRepairable,
		Payload: payload,
		Profile: fixed,
		Fixed:   res.Fixed,
		Problem: res.Problem,
	}
}

// Accept persists an inspected profile and logs the scan. Profiles dedupe on
// address+code: re-scanning a known profile returns the stored row.
func (s *IntakeService) Accept(ctx context.Context, in Intake, source string) (repository.Profile, error) {
	if in.Status == IntakeFailed {
		return repository.Profile{}, fmt.Errorf("cannot accept failed intake: %s", in.Problem)
	}

	existing, err := s.Profiles.FindByIdentity(ctx, in.Profile.SMDPAddress, in.Profile.ActivationCode)
	if err != nil {
		return repository.Profile{}, fmt.Errorf("lookup profile: %w", err)
	}
	if existing != nil {
		if err := s.logScan(ctx, in, &existing.ID); err != nil {
			return *existing, fmt.Errorf("log scan: %w", err)
		}
		return *existing, nil
	}

	row := repository.Profile{
		ID:               uuid.NewString(),
		SMDPAddress:      in.Profile.SMDPAddress,
		ActivationCode:   in.Profile.ActivationCode,
		ConfirmationCode: in.Profile.ConfirmationCode,
		Raw:              in.Profile.Raw,
		Source:           source,
	}
	if err := s.Profiles.Insert(ctx, row); err != nil {
		return repository.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	// The profile is saved either way; a scan-log failure still goes back to
	// the caller so it is not lost silently.
	if err := s.logScan(ctx, in, &row.ID); err != nil {
		return row, fmt.Errorf("log scan: %w", err)
	}
	return row, nil
}

// Reject logs a payload the user declined or that could not be repaired.
func (s *IntakeService) Reject(ctx context.Context, payload, problem string) error {
	return s.Scans.Insert(ctx, repository.Scan{
		ID:      uuid.NewString(),
		Payload: payload,
		Outcome: "failed",
		Problem: problem,
	})
}

// DecodeImage extracts the QR payload from an image file on disk.
func (s *IntakeService) DecodeImage(path string) (string, error) {
	return qr.DecodeFile(path)
}

func (s *IntakeService) logScan(ctx context.Context, in Intake, profileID *string) error {
	outcome := "parsed"
	if in.Status == IntakeRepairable {
		outcome = "repaired"
	}
	return s.Scans.Insert(ctx, repository.Scan{
		ID:        uuid.NewString(),
		Payload:   in.Payload,
		Outcome:   outcome,
		Problem:   in.Problem,
		ProfileID: profileID,
	})
}
