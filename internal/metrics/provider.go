// Package metrics decorates a Provider with prometheus instrumentation:
// a counter of calls by operation and outcome, and a latency histogram.
// The decorator is transparent; the engine never knows it is measured.
package metrics

import (
	"context"
	"time"

	"github.com/axq-tools/axq/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns the provider-call collectors.
type Recorder struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder registers the collectors on the given registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "axq_provider_calls_total",
				Help: "Total provider calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "axq_provider_call_duration_seconds",
				Help: "Latency of provider calls",
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(r.calls, r.duration)
	return r
}

func (r *Recorder) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.calls.WithLabelValues(op, outcome).Inc()
	r.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Instrument wraps a provider so every call is measured.
func Instrument(next ports.Provider, r *Recorder) ports.Provider {
	return &instrumented{next: next, rec: r}
}

type instrumented struct {
	next ports.Provider
	rec  *Recorder
}

func (p *instrumented) RoleOf(ctx context.Context, h ports.Handle) (string, error) {
	start := time.Now()
	v, err := p.next.RoleOf(ctx, h)
	p.rec.observe("role_of", start, err)
	return v, err
}

func (p *instrumented) SubRoleOf(ctx context.Context, h ports.Handle) (string, error) {
	start := time.Now()
	v, err := p.next.SubRoleOf(ctx, h)
	p.rec.observe("subrole_of", start, err)
	return v, err
}

func (p *instrumented) RoleDescriptionOf(ctx context.Context, h ports.Handle) (string, error) {
	start := time.Now()
	v, err := p.next.RoleDescriptionOf(ctx, h)
	p.rec.observe("role_description_of", start, err)
	return v, err
}

func (p *instrumented) TitleOf(ctx context.Context, h ports.Handle) (string, error) {
	start := time.Now()
	v, err := p.next.TitleOf(ctx, h)
	p.rec.observe("title_of", start, err)
	return v, err
}

func (p *instrumented) PIDOf(ctx context.Context, h ports.Handle) (int32, error) {
	start := time.Now()
	v, err := p.next.PIDOf(ctx, h)
	p.rec.observe("pid_of", start, err)
	return v, err
}

func (p *instrumented) HasChildren(ctx context.Context, h ports.Handle) (bool, error) {
	start := time.Now()
	v, err := p.next.HasChildren(ctx, h)
	p.rec.observe("has_children", start, err)
	return v, err
}

func (p *instrumented) ChildrenOf(ctx context.Context, h ports.Handle) ([]ports.Handle, error) {
	start := time.Now()
	v, err := p.next.ChildrenOf(ctx, h)
	p.rec.observe("children_of", start, err)
	return v, err
}

func (p *instrumented) AttributeNames(ctx context.Context, h ports.Handle) ([]string, error) {
	start := time.Now()
	v, err := p.next.AttributeNames(ctx, h)
	p.rec.observe("attribute_names", start, err)
	return v, err
}

func (p *instrumented) AttributeValue(ctx context.Context, h ports.Handle, key string) (any, error) {
	start := time.Now()
	v, err := p.next.AttributeValue(ctx, h, key)
	p.rec.observe("attribute_value", start, err)
	return v, err
}

func (p *instrumented) SetAttributeValue(ctx context.Context, h ports.Handle, key string, value any) error {
	start := time.Now()
	err := p.next.SetAttributeValue(ctx, h, key, value)
	p.rec.observe("set_attribute_value", start, err)
	return err
}

func (p *instrumented) ActionsOf(ctx context.Context, h ports.Handle) ([]string, error) {
	start := time.Now()
	v, err := p.next.ActionsOf(ctx, h)
	p.rec.observe("actions_of", start, err)
	return v, err
}

func (p *instrumented) PerformAction(ctx context.Context, h ports.Handle, name string) error {
	start := time.Now()
	err := p.next.PerformAction(ctx, h, name)
	p.rec.observe("perform_action", start, err)
	return err
}

func (p *instrumented) Applications(ctx context.Context) ([]ports.AppInfo, error) {
	start := time.Now()
	v, err := p.next.Applications(ctx)
	p.rec.observe("applications", start, err)
	return v, err
}

func (p *instrumented) ApplicationElement(ctx context.Context, pid int32) (ports.Handle, error) {
	start := time.Now()
	v, err := p.next.ApplicationElement(ctx, pid)
	p.rec.observe("application_element", start, err)
	return v, err
}

func (p *instrumented) FocusedApplication(ctx context.Context) (ports.Handle, error) {
	start := time.Now()
	v, err := p.next.FocusedApplication(ctx)
	p.rec.observe("focused_application", start, err)
	return v, err
}

func (p *instrumented) Trusted() bool { return p.next.Trusted() }
