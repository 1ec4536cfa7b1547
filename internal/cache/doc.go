// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

/*
Package cache provides a generic, thread-safe LRU cache with idle expiry.

The preference registry keeps one learning session per active user in an
LRU[*preference.Session]. A session that has not been touched for the idle
TTL, or that is pushed out by capacity pressure, is dropped and rebuilt from
the database on next use.

# Usage

	sessions := cache.NewLRU[*Session](10000, 30*time.Minute,
	    cache.WithEvictCallback(func(userID string, _ *Session) {
	        metrics.SessionCacheEvictions.Inc()
	    }),
	)
	s := sessions.GetOrCreate(userID, func() *Session { return newSession(userID) })

# Complexity

Get, GetOrCreate, Add and Remove are O(1) using a doubly linked list with a
hash map index. CleanupExpired and Keys are O(n).
*/
package cache
