// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

/*
Package auth authenticates API callers.

Two modes are supported, selected by security.auth_mode:

  - none: every request is accepted and no subject is attached. Intended for
    deployments behind a trusted gateway and for local development.
  - jwt: requests must carry "Authorization: Bearer <token>", an HS256 token
    signed with security.jwt_secret. The token's sub claim is the Permahub
    user ID and is attached to the request context as a Subject.

User-scoped routes additionally pass through RequireUser, which rejects a
request whose {userID} path parameter differs from the authenticated
subject. Handlers that take the user ID from a request body call Authorized
with the same rule.

Usage:

	mw, err := auth.NewMiddleware(&cfg.Security)
	if err != nil {
	    return err
	}
	r.Use(mw.Authenticate)
	r.With(mw.RequireUser("userID")).Get("/users/{userID}/recommendations", h)
*/
package auth
