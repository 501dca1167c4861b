package dto

import (
	"github.com/ticketdesk/ticketdesk-service/internal/analytics"
	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

// AnalyticsResponse is the dashboard statistics payload.
type AnalyticsResponse struct {
	TotalTickets        int                           `json:"totalTickets"`
	PendingTickets      int                           `json:"pendingTickets"`
	InProgressTickets   int                           `json:"inProgressTickets"`
	ResolvedTickets     int                           `json:"resolvedTickets"`
	HighPriorityTickets int                           `json:"highPriorityTickets"`
	ThisWeekTickets     int                           `json:"thisWeekTickets"`
	ThisMonthTickets    int                           `json:"thisMonthTickets"`
	ResolutionRate      int                           `json:"resolutionRate"`
	AvgResolutionTime   float64                       `json:"avgResolutionTime"`
	DepartmentStats     map[string]int                `json:"departmentStats"`
	PriorityStats       map[domain.TicketPriority]int `json:"priorityStats"`
	StatusStats         map[domain.TicketStatus]int   `json:"statusStats"`
	TopUsers            []TopUserResponse             `json:"topUsers"`
	DailyTrends         []DailyTrendResponse          `json:"dailyTrends"`
}

// TopUserResponse is a frequent submitter.
type TopUserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	TicketCount int    `json:"ticketCount"`
}

// DailyTrendResponse is the ticket count of one calendar day.
type DailyTrendResponse struct {
	Date     string `json:"date"`
	FullDate string `json:"fullDate"`
	Tickets  int    `json:"tickets"`
}

// ToAnalyticsResponse maps a computed report.
func ToAnalyticsResponse(r analytics.Report) AnalyticsResponse {
	top := make([]TopUserResponse, 0, len(r.TopUsers))
	for _, u := range r.TopUsers {
		top = append(top, TopUserResponse{ID: u.ID, Name: u.Name, Email: u.Email, TicketCount: u.TicketCount})
	}
	trends := make([]DailyTrendResponse, 0, len(r.DailyTrends))
	for _, d := range r.DailyTrends {
		trends = append(trends, DailyTrendResponse{Date: d.Label, FullDate: d.FullDate, Tickets: d.Tickets})
	}
	return AnalyticsResponse{
		TotalTickets:        r.TotalTickets,
		PendingTickets:      r.PendingTickets,
		InProgressTickets:   r.InProgressTickets,
		ResolvedTickets:     r.ResolvedTickets,
		HighPriorityTickets: r.HighPriority,
		ThisWeekTickets:     r.ThisWeekTickets,
		ThisMonthTickets:    r.ThisMonthTickets,
		ResolutionRate:      r.ResolutionRate,
		AvgResolutionTime:   r.AvgResolutionDays,
		DepartmentStats:     r.DepartmentStats,
		PriorityStats:       r.PriorityStats,
		StatusStats:         r.StatusStats,
		TopUsers:            top,
		DailyTrends:         trends,
	}
}
