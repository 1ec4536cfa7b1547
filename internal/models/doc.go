// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

/*
Package models defines the data structures shared by the preference, recommend,
database and api packages.

Model Categories:

 1. Stored records:
    - Affinity: per (user, category) engagement, frequency and recency signals
    - Profile: read-only user identity and optional location
    - CategoryGraph: directed category co-occurrence weights

 2. Request-scoped values:
    - InteractionEvent: one observed interaction, validated at the boundary
    - Candidate: a recommendation produced by one strategy before ranking
    - CatalogItem / RemoteCandidate: rows read from the catalog and remote procedures

 3. API envelope:
    - APIResponse, Metadata, APIError

ActivityType and ContentType are closed enums. Code that needs to branch on an
activity uses the enum (see ActivityCounts.Increment) rather than building
column names from strings.
*/
package models
