package domain

// HealthStatus is the outcome of one doctor check. Later values are worse.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "error"
)

func (s HealthStatus) severity() int {
	switch s {
	case HealthWarn:
		return 1
	case HealthError:
		return 2
	default:
		return 0
	}
}

// HealthCheck is one line of the doctor report, e.g. "Endpoint" or "Storage".
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
}

// HealthReport collects the doctor checks in the order they ran.
type HealthReport struct {
	Checks []HealthCheck
}

// Status returns the worst status in the report; an empty report is ok.
func (r HealthReport) Status() HealthStatus {
	worst := HealthOK
	for _, check := range r.Checks {
		if check.Status.severity() > worst.severity() {
			worst = check.Status
		}
	}
	return worst
}
