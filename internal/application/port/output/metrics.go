package output

import "time"

type MetricsPort interface {
	RunFinished(mode string, status string, d time.Duration)
	StepFinished(status string)
	ToolCalled(tool string, status string, d time.Duration)
	ModelCalled(status string, d time.Duration)
}
