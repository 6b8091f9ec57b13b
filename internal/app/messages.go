package app

import (
	"github.com/j-veylop/journal-runstats/internal/models"
	"github.com/j-veylop/journal-runstats/internal/services"
)

// SubscriptionEventMsg carries the channel returned by Manager.Subscribe.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ServiceEventMsg wraps an event received from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// AnalysisDoneMsg is sent when the batch finished, successfully or not.
type AnalysisDoneMsg struct {
	Report *models.Report
	Err    error
}
