package service

import (
	"github.com/arj/esimqr/internal/database/repository"
	"github.com/arj/esimqr/internal/lpa"
	"github.com/arj/esimqr/internal/qr"
)

// ExportService renders saved profiles back into scannable form.
type ExportService struct {
	Parser *lpa.Parser
	Size   int // QR PNG pixel size
}

// Render validates a stored profile and serializes it canonically. Rows that
// somehow hold delimiter characters are rejected here rather than turned
// into a string that would not round-trip.
func (s *ExportService) Render(row repository.Profile) (string, error) {
	prof := lpa.Profile{
		SMDPAddress:      row.SMDPAddress,
		ActivationCode:   row.ActivationCode,
		ConfirmationCode: row.ConfirmationCode,
	}
	if err := s.Parser.Validate(prof); err != nil {
		return "", err
	}
	return prof.String(), nil
}

// PNG renders the profile QR as PNG bytes.
func (s *ExportService) PNG(row repository.Profile) ([]byte, error) {
	content, err := s.Render(row)
	if err != nil {
		return nil, err
	}
	return qr.EncodePNG(content, s.pngSize())
}

// WriteFile writes the profile QR PNG to path.
func (s *ExportService) WriteFile(row repository.Profile, path string) error {
	content, err := s.Render(row)
	if err != nil {
		return err
	}
	return qr.WriteFile(content, s.pngSize(), path)
}

// Terminal renders the profile QR as block characters for in-TUI scanning.
func (s *ExportService) Terminal(row repository.Profile) (string, error) {
	content, err := s.Render(row)
	if err != nil {
		return "", err
	}
	return qr.TerminalString(content)
}

func (s *ExportService) pngSize() int {
	if s.Size <= 0 {
		return 256
	}
	return s.Size
}
