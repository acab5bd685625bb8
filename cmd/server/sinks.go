package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rummage/shopkeeper/internal/config"
	"github.com/rummage/shopkeeper/internal/services"
)

// sinkSet owns the configured mirrors and the clients behind them.
type sinkSet struct {
	sinks   services.MultiSink
	closers []func(context.Context) error
	log     *zap.Logger
}

func buildSinks(ctx context.Context, cfg config.SyncConfig, log *zap.Logger) (*sinkSet, error) {
	set := &sinkSet{log: log}

	for _, name := range cfg.Sinks {
		switch name {
		case "csv":
			sink, err := services.NewCSVFileSink(cfg.CSVPath)
			if err != nil {
				set.Close()
				return nil, err
			}
			set.sinks = append(set.sinks, sink)
		case "json":
			sink, err := services.NewJSONFileSink(cfg.JSONPath)
			if err != nil {
				set.Close()
				return nil, err
			}
			set.sinks = append(set.sinks, sink)
		case "sheets":
			sink, err := services.NewSheetsSink(ctx, services.SheetsConfig{
				SpreadsheetID:   cfg.SpreadsheetID,
				SheetName:       cfg.SheetName,
				CredentialsFile: cfg.SheetsCredentialsFile,
			})
			if err != nil {
				set.Close()
				return nil, err
			}
			set.sinks = append(set.sinks, sink)
		case "gcs":
			sink, err := services.NewGCSSink(ctx, cfg.GCSBucket, cfg.GCSObject)
			if err != nil {
				set.Close()
				return nil, err
			}
			set.sinks = append(set.sinks, sink)
			set.closers = append(set.closers, func(context.Context) error { return sink.Close() })
		case "mongo":
			sink, err := services.NewMongoSink(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoCollection)
			if err != nil {
				set.Close()
				return nil, err
			}
			set.sinks = append(set.sinks, sink)
			set.closers = append(set.closers, sink.Close)
		default:
			set.Close()
			return nil, fmt.Errorf("unknown sync sink %q", name)
		}
		log.Info("Sync sink enabled", zap.String("sink", set.sinks[len(set.sinks)-1].Name()))
	}

	if len(set.sinks) == 0 {
		log.Warn("No sync sinks configured; inventory lives in memory only")
	}
	return set, nil
}

// SyncSink returns the sink the inventory should publish to.
func (s *sinkSet) SyncSink() services.SyncSink {
	switch len(s.sinks) {
	case 0:
		return services.NopSink{}
	case 1:
		return s.sinks[0]
	default:
		return s.sinks
	}
}

func (s *sinkSet) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, closeFn := range s.closers {
		if err := closeFn(ctx); err != nil {
			s.log.Warn("Closing sync sink failed", zap.Error(err))
		}
	}
	s.closers = nil
}
