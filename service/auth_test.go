// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"testing"

	"github.com/danielhkuo/pageant-tally/models"
	"github.com/danielhkuo/pageant-tally/testutil"
)

func TestLogin(t *testing.T) {
	svc, conn := setupServices(t)
	ctx := context.Background()

	u := testutil.CreateTestUser(t, conn, "admin", models.RoleOrganizer)

	resp, err := svc.Auth.Login(ctx, models.LoginRequest{Username: "admin", Password: testutil.TestPassword})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("Login() returned empty token")
	}
	if resp.User.ID != u.ID || resp.User.Role != models.RoleOrganizer {
		t.Errorf("Login() user = %+v", resp.User)
	}

	session, err := svc.Auth.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if session.UserID != u.ID || session.Role != models.RoleOrganizer {
		t.Errorf("session = %+v", session)
	}

	me, err := svc.Auth.Me(ctx, session)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if me.Username != "admin" {
		t.Errorf("Me() = %+v", me)
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, conn := setupServices(t)
	ctx := context.Background()

	testutil.CreateTestUser(t, conn, "admin", models.RoleOrganizer)

	tests := []struct {
		name    string
		req     models.LoginRequest
		wantMsg string
	}{
		{"wrong password", models.LoginRequest{Username: "admin", Password: "wrong"}, "Invalid username or password"},
		{"unknown user", models.LoginRequest{Username: "ghost", Password: "wrong"}, "Invalid username or password"},
		{"missing password", models.LoginRequest{Username: "admin"}, "Username and password are required"},
		{"missing username", models.LoginRequest{Password: "wrong"}, "Username and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Auth.Login(ctx, tt.req)
			assertCode(t, err, CodeInvalidCredentials)
			if resp != nil {
				t.Error("Login() returned a response on failure")
			}
			if err != nil && err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
