// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

/*
Package supervisor runs the affinity service's long-lived components under a
suture v4 supervisor tree.

The tree has three layers so that a failure in one does not take down the
others:

	permahub-affinity
	├── maintenance
	│   ├── RecencyDecayService   (decay.enabled)
	│   └── SessionSweepService
	├── ingestion
	│   └── IngestionService      (nats.enabled)
	└── api
	    └── HTTPServerService

A NATS outage therefore restarts only the ingestion layer, with backoff,
while the REST API keeps serving recommendations.

Supervisor events (service start, failure, backoff, restart) are written
through sutureslog to an slog.Logger; main passes logging.NewSlogLogger() so
they land in the same zerolog sink as everything else.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(services.NewSessionSweepService(registry, time.Minute, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

See the services subpackage for the individual service adapters.
*/
package supervisor
