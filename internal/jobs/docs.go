// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ExpirySweepJob - expires unclaimed broadcast assignments past the expiry
// window and applies the no-response penalty to their broadcast sets
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(sweepHandler, "*/30 * * * * *", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The sweep command skips per-assignment failures internally (a lost claim
// race is expected, not an error); only sweep-level failures surface here and
// get logged.
package jobs
