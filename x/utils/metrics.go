package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator counting processed transactions and measuring
// their execution time, labeled by message path and result code.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ weave.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator and registers its collectors
// with given registerer.
func NewMetrics(reg prometheus.Registerer) Metrics {
	m := Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supersig",
			Name:      "transactions_total",
			Help:      "Number of processed transactions.",
		}, []string{"phase", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "supersig",
			Name:      "transaction_duration_seconds",
			Help:      "Transaction processing time.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase", "path"}),
	}
	reg.MustRegister(m.txs, m.duration)
	return m
}

func (m Metrics) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe("check", weave.GetPath(tx), start, err)
	return res, err
}

func (m Metrics) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe("deliver", weave.GetPath(tx), start, err)
	return res, err
}

func (m Metrics) observe(phase, path string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
