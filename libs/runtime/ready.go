package runtime

import (
	"context"
	"time"
)

// ReadyCheck is a named dependency check used by the doctor command.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

type CheckResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// RunChecks executes every check with its own timeout and reports them in order.
func RunChecks(ctx context.Context, timeout time.Duration, checks ...ReadyCheck) []CheckResult {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		if check.Check == nil {
			continue
		}
		name := check.Name
		if name == "" {
			name = "dependency"
		}
		start := time.Now()
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		err := check.Check(checkCtx)
		cancel()
		results = append(results, CheckResult{Name: name, Err: err, Duration: time.Since(start)})
	}
	return results
}

func AllHealthy(results []CheckResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return false
		}
	}
	return true
}
