package domain

import (
	"testing"
	"time"
)

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		role     Role
		valid    bool
		admin    bool
		selfJoin bool
	}{
		{role: RoleStudent, valid: true, admin: false, selfJoin: true},
		{role: RoleFaculty, valid: true, admin: false, selfJoin: true},
		{role: RoleSubAdmin, valid: true, admin: true, selfJoin: false},
		{role: RoleSuperAdmin, valid: true, admin: true, selfJoin: false},
		{role: Role("janitor"), valid: false, admin: false, selfJoin: false},
	}
	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.valid {
			t.Fatalf("%s: Valid() = %v", tt.role, got)
		}
		if got := tt.role.IsAdmin(); got != tt.admin {
			t.Fatalf("%s: IsAdmin() = %v", tt.role, got)
		}
		if got := tt.role.SelfRegistrable(); got != tt.selfJoin {
			t.Fatalf("%s: SelfRegistrable() = %v", tt.role, got)
		}
	}
}

func TestStatusAndPriorityValidation(t *testing.T) {
	if !TicketStatusInProgress.Valid() || TicketStatus("closed").Valid() {
		t.Fatal("unexpected status validation result")
	}
	if !TicketPriorityHigh.Valid() || TicketPriority("urgent").Valid() {
		t.Fatal("unexpected priority validation result")
	}
}

func TestResolvedAtUsesFirstResolution(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	resolved := TicketStatusResolved
	pending := TicketStatusPending
	ticket := Ticket{Updates: []TicketUpdate{
		{Status: &pending, Timestamp: base},
		{Timestamp: base.Add(time.Hour)},
		{Status: &resolved, Timestamp: base.Add(48 * time.Hour)},
		{Status: &resolved, Timestamp: base.Add(96 * time.Hour)},
	}}
	at, ok := ticket.ResolvedAt()
	if !ok {
		t.Fatal("expected resolution")
	}
	if !at.Equal(base.Add(48 * time.Hour)) {
		t.Fatalf("expected first resolution, got %v", at)
	}

	if _, ok := (&Ticket{}).ResolvedAt(); ok {
		t.Fatal("ticket without updates has no resolution")
	}
}
