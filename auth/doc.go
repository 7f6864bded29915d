// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and session tokens.

# Passwords

Passwords are stored as bcrypt hashes and never compared in plaintext:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate) // ErrInvalidPassword on mismatch

# Sessions

A Session names the calling user and role. It is issued at login as an
HS256-signed token and carried by the client in the Authorization header:

	token, expiresAt, err := auth.IssueSession(session, secret, ttl)
	session, err := auth.ParseSession(token, secret) // ErrInvalidToken on failure

Tokens carry the user ID as subject, a random token ID, issuer and expiry.
No session state is kept on the server.

# Request Context

Middleware places the parsed session in the request context; handlers read
it explicitly:

	ctx = auth.WithSession(ctx, session)
	session, ok := auth.SessionFrom(ctx)
*/
package auth
