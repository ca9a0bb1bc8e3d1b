package metrics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBConnectionsOpen = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_open",
			Help:      "Open database connections",
		},
	)

	DBConnectionsInUse = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_in_use",
			Help:      "Acquired database connections",
		},
	)

	DBConnectionsIdle = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_idle",
			Help:      "Idle database connections",
		},
	)

	DBConnectionsMax = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_max",
			Help:      "Configured maximum pool size",
		},
	)
)

// PoolStats is the subset of pgxpool.Stat the collector reads.
type PoolStats interface {
	TotalConns() int32
	AcquiredConns() int32
	IdleConns() int32
	MaxConns() int32
}

// DBCollector samples connection pool statistics on an interval.
type DBCollector struct {
	stat func() PoolStats
}

func NewDBCollector(pool *pgxpool.Pool) *DBCollector {
	if pool == nil {
		return &DBCollector{}
	}
	return &DBCollector{stat: func() PoolStats { return pool.Stat() }}
}

// Run samples until ctx is cancelled.
func (c *DBCollector) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.collect()
	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-ctx.Done():
			return
		}
	}
}

func (c *DBCollector) collect() {
	if c.stat == nil {
		return
	}
	s := c.stat()
	DBConnectionsOpen.Set(float64(s.TotalConns()))
	DBConnectionsInUse.Set(float64(s.AcquiredConns()))
	DBConnectionsIdle.Set(float64(s.IdleConns()))
	DBConnectionsMax.Set(float64(s.MaxConns()))
}
