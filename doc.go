// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pageant-tally API server.

pageant-tally records judges' scores for a pageant. Organizers define
segments (Swimwear, Talent, ...) with weighted criteria, register
participants and judge accounts, and read a ranked leaderboard per segment.
Judges submit one score per participant and criterion.

# Starting the Server

	DATABASE_URL=postgres://... SESSION_SECRET=... go run .

Or against a local SQLite file:

	go run . -t sqlite -d pageant.db --session-secret dev --admin-user admin --admin-password admin

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string or SQLite path
  - SESSION_SECRET (--session-secret): Secret for signing session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres (default) or sqlite
  - SESSION_TTL (--session-ttl): Session lifetime (default: 12h)
  - ADMIN_USERNAME, ADMIN_PASSWORD: Organizer created when none exists

# Architecture

  - handlers: HTTP request handlers
  - router: Route table and access levels
  - middleware: CORS, logging, sessions, JSON helpers
  - service: Validation, business rules, aggregation
  - repository: SQL access for both dialects
  - models: Request/response and domain types
  - auth: Password hashing and session tokens
  - db: Connection and schema creation
  - cliparse: Configuration parsing
*/
package main
