package service

import (
	"context"
	"testing"
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

func TestAnalyticsScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.file(t, f.student, "Projector", "IT Support")
	f.file(t, f.faculty, "Wifi", "IT Support")
	chair := f.file(t, f.student, "Chair", "Facilities")
	if _, err := f.tickets.UpdateStatus(ctx, f.facAdmin, chair.ID, domain.TicketStatusResolved, ""); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	_, err := f.analytics.Report(ctx, f.student, "")
	wantCode(t, err, "FORBIDDEN")

	report, err := f.analytics.Report(ctx, f.itAdmin, "Facilities")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalTickets != 2 || report.DepartmentStats["IT Support"] != 2 {
		t.Fatalf("sub admin report not scoped: %+v", report)
	}

	report, _ = f.analytics.Report(ctx, f.super, "")
	if report.TotalTickets != 3 || report.ResolvedTickets != 1 || report.ResolutionRate != 33 {
		t.Fatalf("unexpected global report: %+v", report)
	}
	if len(report.TopUsers) != 2 || report.TopUsers[0].ID != f.student.ID || report.TopUsers[0].TicketCount != 2 {
		t.Fatalf("unexpected top users: %+v", report.TopUsers)
	}
	if report.ThisWeekTickets != 3 || report.DailyTrends[6].Tickets != 3 {
		t.Fatalf("expected all tickets today: week=%d today=%d", report.ThisWeekTickets, report.DailyTrends[6].Tickets)
	}

	report, _ = f.analytics.Report(ctx, f.super, "Facilities")
	if report.TotalTickets != 1 || report.ResolutionRate != 100 {
		t.Fatalf("unexpected filtered report: %+v", report)
	}
}

func TestAnalyticsStopsAtReportTime(t *testing.T) {
	f := newFixture(t)
	f.file(t, f.student, "Projector", "IT Support")
	f.tickets.now = func() time.Time { return time.Now().Add(time.Hour) }
	f.file(t, f.student, "Filed during the scan", "IT Support")

	report, err := f.analytics.Report(context.Background(), f.super, "")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalTickets != 1 {
		t.Fatalf("tickets after the report time must be excluded, got %d", report.TotalTickets)
	}
}
