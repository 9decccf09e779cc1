// Package metrics provides Prometheus metrics for the webshell server.
package metrics

import (
	"errors"
	"net/http"

	"github.com/CageChen/webshell/internal/shell"
	"github.com/CageChen/webshell/internal/vfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webshell_commands_total",
			Help: "Total number of executed commands",
		},
		[]string{"command", "status"},
	)

	resolveFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webshell_path_resolution_failures_total",
			Help: "Commands that failed on path resolution, by failure kind",
		},
		[]string{"kind"},
	)

	treeNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webshell_tree_nodes",
			Help: "Number of nodes in the served tree",
		},
	)

	treeReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webshell_tree_reloads_total",
			Help: "Tree reloads triggered by source changes",
		},
		[]string{"status"},
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webshell_websocket_sessions_active",
			Help: "Number of open websocket terminals",
		},
	)
)

// Observer records command executions. It satisfies shell.Observer.
type Observer struct{}

// CommandExecuted counts a command by name and outcome. Unknown command
// names share a single label value.
func (Observer) CommandExecuted(name string, err error) {
	status := "ok"
	switch {
	case errors.Is(err, shell.ErrUnknownCommand):
		name, status = "unknown", "unknown"
	case err != nil:
		status = "error"
	}
	commandsTotal.WithLabelValues(name, status).Inc()

	if kind := vfs.KindOf(err); kind != 0 {
		resolveFailuresTotal.WithLabelValues(kindLabel(kind)).Inc()
	}
}

func kindLabel(kind vfs.ErrorKind) string {
	switch kind {
	case vfs.InvalidPath:
		return "invalid_path"
	case vfs.PathNotFound:
		return "not_found"
	case vfs.NotADirectory:
		return "not_a_directory"
	}
	return "other"
}

// SetTreeNodes records the size of the served tree.
func SetTreeNodes(n int) {
	treeNodes.Set(float64(n))
}

// RecordReload counts a tree reload attempt.
func RecordReload(err error) {
	if err != nil {
		treeReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	treeReloadsTotal.WithLabelValues("ok").Inc()
}

// WebsocketOpened tracks an open websocket terminal.
func WebsocketOpened() { sessionsActive.Inc() }

// WebsocketClosed tracks a closed websocket terminal.
func WebsocketClosed() { sessionsActive.Dec() }

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
