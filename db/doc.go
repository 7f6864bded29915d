// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open supports PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite) and pings
before returning:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections are limited to one open connection and always run with
foreign keys enabled; see SQLiteDSN.

# Schema Creation

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: organizers and judges, bcrypt password hashes
  - participants: contestants, unique number, MR or MS
  - segments: judged events, unique name
  - criteria: scored aspects of a segment with a max score
  - scores: one per (participant, criteria, judge)

# Relationships

	segments 1──* criteria
	criteria 1──* scores
	participants 1──* scores
	users 1──* scores

Foreign keys use ON DELETE CASCADE. The service layer also deletes
dependent rows explicitly inside a transaction.
*/
package db
