package services

import (
	"context"
	"fmt"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/ports"
)

// A bin that needs a technician rather than a truck.
type SupportTicket struct {
	Bin      *domain.Bin
	Reason   string
	Severity domain.Severity
}

// Summary of a triage run over every bin.
type TriageReport struct {
	Tickets  []SupportTicket
	Critical int
	Warning  int
	// Bins with a real fill percentage.
	Valid int
}

// TriageBins lists the bins needing technical support, in repository order.
func TriageBins(ctx context.Context, repo ports.BinRepository, now time.Time) (*TriageReport, error) {
	bins, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("triage bins: list bins: %w", err)
	}

	rep := &TriageReport{Tickets: []SupportTicket{}}
	for _, b := range bins {
		if b.HasValidFill() {
			rep.Valid++
		}

		reason, sev, ok := b.SupportIssue(now)
		if !ok {
			continue
		}
		rep.Tickets = append(rep.Tickets, SupportTicket{Bin: b, Reason: reason, Severity: sev})

		switch sev {
		case domain.SeverityCritical:
			rep.Critical++
		case domain.SeverityWarning:
			rep.Warning++
		}
	}

	return rep, nil
}
