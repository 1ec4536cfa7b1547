// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

// Package testinfra starts throwaway containers for integration tests.
//
// Everything here sits behind the integration build tag and needs a Docker
// daemon. Tests call SkipIfNoDocker first so that the suite degrades to a
// skip on machines without one.
//
//	func TestStoreRoundTrip(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//
//	    db, err := database.New(&config.DatabaseConfig{URL: pg.DSN, AutoMigrate: true})
//	    // ...
//	}
//
// Run with:
//
//	go test -tags integration ./...
package testinfra
