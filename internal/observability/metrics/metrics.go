package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics are the pipeline-level counters exposed on /metrics.
type Metrics struct {
	EmailJobsTotal   *prometheus.CounterVec
	TriggerRunsTotal *prometheus.CounterVec
	OffersTotal      *prometheus.CounterVec
	SweepUsersTotal  prometheus.Counter
}

func New() (*Metrics, error) {
	m := &Metrics{
		EmailJobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retainflow_email_jobs_total",
			Help: "Email queue jobs by template and terminal status.",
		}, []string{"template", "status"}),
		TriggerRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retainflow_trigger_runs_total",
			Help: "Retention trigger invocations by event and outcome.",
		}, []string{"event", "status"}),
		OffersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retainflow_offers_generated_total",
			Help: "Retention offers generated by kind.",
		}, []string{"kind"}),
		SweepUsersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "retainflow_churn_sweep_users_total",
			Help: "Users processed by the daily churn sweep.",
		}),
	}

	for _, collector := range []prometheus.Collector{
		m.EmailJobsTotal,
		m.TriggerRunsTotal,
		m.OffersTotal,
		m.SweepUsersTotal,
	} {
		if err := prometheus.Register(collector); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				_ = are
				continue
			}
			return nil, err
		}
	}

	return m, nil
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
