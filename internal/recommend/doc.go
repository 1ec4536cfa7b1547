// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

// Package recommend blends three recommendation strategies into one ranked
// list for a user.
//
// # Strategies
//
// For a request of n items the engine fans out concurrently to:
//
//   - content: newest available resources in the user's top five affinity
//     categories plus newest active projects, scored with ContentScore
//     (ceil(0.6n) candidates)
//   - collaborative: items favorited, created or shared by up to ten similar
//     users that the user has not already seen (ceil(0.3n))
//   - trending: items with the most distinct interacting users over the last
//     seven days (ceil(0.1n))
//
// Because of the ceilings the generators may return more than n candidates
// in total; the surplus absorbs duplicates before the final cut.
//
// # Ranking
//
// Candidates are deduplicated on "type:id", keeping the copy with the higher
// raw score and its strategy. The survivor is multiplied by its strategy
// weight (content 1.0, collaborative 0.9, trending 0.8, anything else 0.5),
// and every item of a content type with more than three candidates is
// multiplied by 0.9. The list is sorted by final score and cut to n.
//
// # Failure Handling
//
// A failing generator contributes no candidates and is reported in
// Result.Strategies; it never aborts the request. Remote procedure calls
// (similar users, collaborative, trending) run behind a circuit breaker so a
// struggling database is not hammered by every request.
//
// # Usage
//
//	engine := recommend.NewEngine(db, recommend.NewGuardedProcedures(db, cfg.Breaker, logger), cfg, logger)
//	sess, err := registry.Session(ctx, userID)
//	if err != nil {
//	    return err
//	}
//	result, err := engine.GetRecommendations(ctx, sess, 10)
package recommend
