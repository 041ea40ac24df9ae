package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds database tracing configuration
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables; never in production
	SlowQueryThresh time.Duration
	DBSystem        string
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm on db plus callbacks that annotate
// each span with rows affected, the table and a slow query flag.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	after := annotateSpan(cfg.SlowQueryThresh)
	cb := db.Callback()
	if err := errors.Join(
		cb.Create().Before("gorm:create").Register("customers_otel:before_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("customers_otel:before_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("customers_otel:before_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("customers_otel:before_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("customers_otel:before_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("customers_otel:before_raw", markQueryStart),
		cb.Create().After("gorm:create").Register("customers_otel:after_create", after),
		cb.Query().After("gorm:query").Register("customers_otel:after_query", after),
		cb.Update().After("gorm:update").Register("customers_otel:after_update", after),
		cb.Delete().After("gorm:delete").Register("customers_otel:after_delete", after),
		cb.Row().After("gorm:row").Register("customers_otel:after_row", after),
		cb.Raw().After("gorm:raw").Register("customers_otel:after_raw", after),
	); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func annotateSpan(slow time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}

		start, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > slow {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
