// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first when present.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Connection string (required)
  - DatabaseType: "postgres" (default) or "sqlite"
  - SessionSecret: HMAC secret for session tokens (required)
  - SessionTTL: Session lifetime (default: 12h)
  - AdminUsername, AdminPassword: Organizer seeded on first start (optional)
  - CORSOrigins: Browser origins allowed by CORS (default: any, without credentials)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--session-secret  Session signing secret
	--session-ttl     Session lifetime (Go duration)
	--admin-user      Seed organizer username
	--admin-password  Seed organizer password
	--cors-origins    Comma-separated allowed origins

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SESSION_SECRET → --session-secret
	SESSION_TTL    → --session-ttl
	ADMIN_USERNAME → --admin-user
	ADMIN_PASSWORD → --admin-password
	CORS_ORIGINS   → --cors-origins

CLI flags take precedence over environment variables.
*/
package cliparse
