// Package health reports the availability of the streaming server and of
// the client's own subsystems.
//
// A Checker answers "how is this component doing" with a Result: healthy,
// degraded, or unhealthy, plus a message for the diagnostics screen.
//
// # Checking the server
//
// ServerChecker times a ping round trip and classifies it. A failed ping
// is unhealthy, a slow one degraded:
//
//	checker := health.NewServerChecker(client.Ping, health.ServerCheckerConfig{
//	    DegradedAfter: 2 * time.Second,
//	})
//
//	result := checker.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("server unreachable: %v", result.Error)
//	}
//
// # Aggregating
//
// Aggregator runs a set of checkers, typically the server link, the auth
// session, and the local cache, and folds their results into one status:
//
//	agg := health.NewAggregator()
//	agg.Register("server", serverChecker)
//	agg.Register("session", sessionChecker)
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
package health
