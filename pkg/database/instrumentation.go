package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/metrics"
)

const startKey = "healthtrack:query_start"

// QueryObserver is a gorm plugin that records statement latency per operation
// and table, tracks open connections and logs statements slower than the
// threshold. Bound values are never logged.
type QueryObserver struct {
	collector *metrics.Collector
	log       *zap.Logger
	slow      time.Duration
}

func NewQueryObserver(collector *metrics.Collector, log *zap.Logger, slow time.Duration) *QueryObserver {
	return &QueryObserver{collector: collector, log: log, slow: slow}
}

func (o *QueryObserver) Name() string {
	return "healthtrack:query_observer"
}

func (o *QueryObserver) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("observer:before_create", o.before),
		cb.Create().After("gorm:create").Register("observer:after_create", o.after("create")),
		cb.Query().Before("gorm:query").Register("observer:before_query", o.before),
		cb.Query().After("gorm:query").Register("observer:after_query", o.after("query")),
		cb.Update().Before("gorm:update").Register("observer:before_update", o.before),
		cb.Update().After("gorm:update").Register("observer:after_update", o.after("update")),
		cb.Delete().Before("gorm:delete").Register("observer:before_delete", o.before),
		cb.Delete().After("gorm:delete").Register("observer:after_delete", o.after("delete")),
		cb.Row().Before("gorm:row").Register("observer:before_row", o.before),
		cb.Row().After("gorm:row").Register("observer:after_row", o.after("row")),
		cb.Raw().Before("gorm:raw").Register("observer:before_raw", o.before),
		cb.Raw().After("gorm:raw").Register("observer:after_raw", o.after("raw")),
	)
}

func (o *QueryObserver) before(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func (o *QueryObserver) after(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		table := db.Statement.Table

		if o.collector != nil {
			o.collector.DBQueryDuration.WithLabelValues(op, table).Observe(elapsed.Seconds())
			if sqlDB, err := db.DB(); err == nil {
				o.collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}

		if o.log != nil && o.slow > 0 && elapsed >= o.slow {
			o.log.Warn("slow query",
				zap.String("operation", op),
				zap.String("table", table),
				zap.Duration("duration", elapsed),
				zap.Int64("rows", db.RowsAffected),
				zap.String("sql", db.Statement.SQL.String()),
			)
		}
	}
}
