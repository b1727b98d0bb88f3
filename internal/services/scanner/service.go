// Package scanner queues URL analyses for the background workers.
package scanner

import (
	"context"

	"clausegrade/internal/fetch"
	"clausegrade/internal/ports"
)

type Service struct {
	domains ports.DomainRepository
	scans   ports.ScanRepository
}

func New(domains ports.DomainRepository, scans ports.ScanRepository) *Service {
	return &Service{domains: domains, scans: scans}
}

var _ ports.Scanner = (*Service)(nil)

func (s *Service) Enqueue(ctx context.Context, rawurl string) (string, error) {
	subject, err := fetch.SubjectFor(rawurl)
	if err != nil {
		return "", err
	}
	domainID, err := s.domains.GetOrCreate(ctx, subject.SellerDomain)
	if err != nil {
		return "", err
	}
	scanID, err := s.scans.Create(ctx, domainID, subject.URL)
	if err != nil {
		return "", err
	}
	return scanID, nil
}

func (s *Service) Status(ctx context.Context, scanID string) (ports.ScanState, error) {
	return s.scans.Get(ctx, scanID)
}
