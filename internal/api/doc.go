// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

/*
Package api serves the HTTP interface of the affinity service.

Routes (chi):

	GET  /api/v1/health/live                                  liveness
	GET  /api/v1/health/ready                                 database ping
	POST /api/v1/interactions                                 learn from one interaction
	GET  /api/v1/users/{userID}/recommendations?count=N       ranked recommendations
	GET  /api/v1/users/{userID}/interest/{contentType}/{id}   predicted interest in [0,1]
	GET  /api/v1/users/{userID}/preferences/export            preference export
	GET  /metrics                                             Prometheus

Every JSON response uses the models.APIResponse envelope. User-scoped routes
require the authenticated subject to match {userID}; the interaction route
applies the same rule to the event's user_id.

Error mapping:

  - validation failures: 400 VALIDATION_ERROR
  - unknown user: 404 NOT_FOUND
  - profile or affinity reads failing: 503 DATA_UNAVAILABLE
  - request deadline exceeded: 503 DATA_UNAVAILABLE
  - anything else: 500 INTERNAL_ERROR
*/
package api
