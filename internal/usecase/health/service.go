package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. The service still answers,
	// possibly via fallbacks.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog is not loaded at all.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status       Status
	Checks       map[string]CheckResult
	ProductCount int
}

// Service coordinates health checks.
type Service struct {
	catalog   Catalog
	db        DBPinger
	embedding EmbeddingChecker
}

// New creates a Service. db and embedding can be nil when the
// corresponding component is not configured.
func New(catalog Catalog, db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{catalog: catalog, db: db, embedding: embedding}
}

// Check runs health checks against all components. Optional components
// only degrade the status; a missing catalog makes it unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.catalog.Ready() {
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckError
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks["catalog"] == CheckError && s.catalog.Count() == 0 {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, ProductCount: s.catalog.Count()}
}
