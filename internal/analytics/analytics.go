// Package analytics derives dashboard statistics from a set of tickets.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

const (
	topUsersLimit = 5
	trendDays     = 7
)

// Report holds every statistic shown on the admin dashboard.
type Report struct {
	TotalTickets      int
	PendingTickets    int
	InProgressTickets int
	ResolvedTickets   int
	HighPriority      int
	ThisWeekTickets   int
	ThisMonthTickets  int
	ResolutionRate    int
	AvgResolutionDays float64
	DepartmentStats   map[string]int
	PriorityStats     map[domain.TicketPriority]int
	StatusStats       map[domain.TicketStatus]int
	TopUsers          []TopUser
	DailyTrends       []DailyTrend
}

// TopUser is a submitter ranked by ticket count.
type TopUser struct {
	ID          string
	Name        string
	Email       string
	TicketCount int
}

// DailyTrend counts tickets submitted on one calendar day.
type DailyTrend struct {
	Label    string
	FullDate string
	Tickets  int
}

// Compute builds a Report in one pass. Calendar boundaries use now's location.
func Compute(tickets []domain.Ticket, now time.Time) Report {
	loc := now.Location()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month()-1, now.Day(), 0, 0, 0, 0, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	firstTrendDay := today.AddDate(0, 0, -(trendDays - 1))

	report := Report{
		DepartmentStats: map[string]int{},
		PriorityStats: map[domain.TicketPriority]int{
			domain.TicketPriorityHigh:   0,
			domain.TicketPriorityMedium: 0,
			domain.TicketPriorityLow:    0,
		},
		StatusStats: map[domain.TicketStatus]int{
			domain.TicketStatusPending:    0,
			domain.TicketStatusInProgress: 0,
			domain.TicketStatusResolved:   0,
		},
	}

	trendCounts := make([]int, trendDays)
	submitters := map[string]*TopUser{}
	var resolutionDays float64
	var resolvedWithHistory int

	for i := range tickets {
		t := &tickets[i]
		report.TotalTickets++

		switch t.Status {
		case domain.TicketStatusPending:
			report.PendingTickets++
		case domain.TicketStatusInProgress:
			report.InProgressTickets++
		case domain.TicketStatusResolved:
			report.ResolvedTickets++
			if at, ok := t.ResolvedAt(); ok {
				resolutionDays += at.Sub(t.SubmissionDate).Hours() / 24
				resolvedWithHistory++
			}
		}
		if t.Priority == domain.TicketPriorityHigh {
			report.HighPriority++
		}
		report.StatusStats[t.Status]++
		report.PriorityStats[t.Priority]++
		report.DepartmentStats[t.Department]++

		if !t.SubmissionDate.Before(weekAgo) {
			report.ThisWeekTickets++
		}
		if !t.SubmissionDate.Before(monthStart) {
			report.ThisMonthTickets++
		}

		local := t.SubmissionDate.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		if !day.Before(firstTrendDay) && !day.After(today) {
			idx := daysBetween(firstTrendDay, day)
			if idx >= 0 && idx < trendDays {
				trendCounts[idx]++
			}
		}

		entry, ok := submitters[t.SubmittedBy]
		if !ok {
			entry = &TopUser{ID: t.SubmittedBy}
			if t.Submitter != nil {
				entry.Name = t.Submitter.Name
				entry.Email = t.Submitter.Email
			}
			submitters[t.SubmittedBy] = entry
		}
		entry.TicketCount++
	}

	if report.TotalTickets > 0 {
		report.ResolutionRate = int(math.Round(float64(report.ResolvedTickets) / float64(report.TotalTickets) * 100))
	}
	if resolvedWithHistory > 0 {
		report.AvgResolutionDays = math.Round(resolutionDays/float64(resolvedWithHistory)*10) / 10
	}

	report.TopUsers = rankSubmitters(submitters)

	report.DailyTrends = make([]DailyTrend, trendDays)
	for i := 0; i < trendDays; i++ {
		day := firstTrendDay.AddDate(0, 0, i)
		report.DailyTrends[i] = DailyTrend{
			Label:    day.Format("Mon"),
			FullDate: day.Format("2006-01-02"),
			Tickets:  trendCounts[i],
		}
	}
	return report
}

func rankSubmitters(submitters map[string]*TopUser) []TopUser {
	ranked := make([]TopUser, 0, len(submitters))
	for _, u := range submitters {
		ranked = append(ranked, *u)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TicketCount != ranked[j].TicketCount {
			return ranked[i].TicketCount > ranked[j].TicketCount
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > topUsersLimit {
		ranked = ranked[:topUsersLimit]
	}
	return ranked
}

// daysBetween counts calendar days from a to b, both local midnights.
// Rounding absorbs DST shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
