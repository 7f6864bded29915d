// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"database/sql"
	"testing"

	"github.com/danielhkuo/pageant-tally/testutil"
)

func setupServices(t *testing.T) (*Services, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return New(conn, testutil.GetTestConfig()), conn
}

func countRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

func assertCode(t *testing.T, err error, want Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := CodeOf(err); got != want {
		t.Errorf("code = %q, want %q (err: %v)", got, want, err)
	}
}
