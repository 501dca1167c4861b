package service

import (
	"context"
	"testing"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
)

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Create(ctx, CreateUserInput{Name: "X", Email: "x@x.io", Password: "secret1", Role: domain.RoleSubAdmin})
	wantCode(t, err, "VALIDATION_FAILED")

	_, err = f.users.Create(ctx, CreateUserInput{Name: "X", Email: "x@x.io", Password: "secret1", Role: "boss"})
	wantCode(t, err, "VALIDATION_FAILED")

	_, err = f.users.Create(ctx, CreateUserInput{Name: "X", Email: "Ivy@fixit.com", Password: "secret1", Role: domain.RoleStudent})
	wantCode(t, err, "CONFLICT")
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role := domain.RoleStudent
	_, err := f.users.Update(ctx, f.super, f.super.ID, UpdateUserInput{Role: &role})
	wantCode(t, err, "VALIDATION_FAILED")

	email := "fay@fixit.com"
	_, err = f.users.Update(ctx, f.super, f.student.ID, UpdateUserInput{Email: &email})
	wantCode(t, err, "CONFLICT")

	subAdmin := domain.RoleSubAdmin
	_, err = f.users.Update(ctx, f.super, f.student.ID, UpdateUserInput{Role: &subAdmin, Department: ptr("")})
	wantCode(t, err, "VALIDATION_FAILED")

	updated, err := f.users.Update(ctx, f.super, f.student.ID, UpdateUserInput{Role: &subAdmin, Department: ptr("IT Support")})
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if updated.Role != domain.RoleSubAdmin || updated.Department != "IT Support" {
		t.Fatalf("unexpected user: %+v", updated)
	}

	_, err = f.users.Update(ctx, f.super, "missing", UpdateUserInput{Name: ptr("x")})
	wantCode(t, err, "NOT_FOUND")
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wantCode(t, f.users.Delete(ctx, f.super, f.super.ID), "VALIDATION_FAILED")
	wantCode(t, f.users.Delete(ctx, f.super, "missing"), "NOT_FOUND")

	ticket := f.file(t, f.student, "Broken AC", "Facilities")
	if err := f.users.Delete(ctx, f.super, f.student.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	kept, err := f.store.Tickets.GetByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("ticket should survive its submitter: %v", err)
	}
	if kept.Submitter != nil {
		t.Fatalf("expected no submitter, got %+v", kept.Submitter)
	}

	role := domain.RoleSubAdmin
	admins, _ := f.users.List(ctx, repository.UserFilter{Role: &role})
	if len(admins) != 2 || admins[0].Name != "Finn" {
		t.Fatalf("unexpected admins: %+v", admins)
	}
}

func ptr[T any](v T) *T {
	return &v
}
