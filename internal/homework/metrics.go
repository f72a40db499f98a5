package homework

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assignmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "homework_assignments_created_total",
		Help: "Assignments created by admins.",
	})
	assignmentsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "homework_assignments_deleted_total",
		Help: "Assignments deleted, completions cascaded.",
	})
	completionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homework_completion_toggles_total",
		Help: "Completion status writes by resulting status.",
	}, []string{"status"})
)
