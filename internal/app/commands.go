package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/journal-runstats/internal/services"
)

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// runAnalysisCmd runs one batch over files and reports its outcome. With no
// files the manager discovers them itself.
func runAnalysisCmd(ctx context.Context, mgr *services.Manager, files []string) tea.Cmd {
	return func() tea.Msg {
		if len(files) == 0 {
			report, err := mgr.Analyze(ctx)
			return AnalysisDoneMsg{Report: report, Err: err}
		}
		report, err := mgr.AnalyzeFiles(ctx, files)
		return AnalysisDoneMsg{Report: report, Err: err}
	}
}
