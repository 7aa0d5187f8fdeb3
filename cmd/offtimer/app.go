package main

import (
	"fmt"
	"log/slog"

	"github.com/offtimer/offtimer-go/pkg/config"
	"github.com/offtimer/offtimer-go/pkg/history"
	"github.com/offtimer/offtimer-go/pkg/log"
	"github.com/offtimer/offtimer-go/pkg/schedule"
)

// app wires the scheduler to its configured collaborators.
type app struct {
	sched   *schedule.Scheduler
	store   *history.Store
	fileLog *log.FileLogger
	logger  *slog.Logger
	closed  bool
}

func newApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &app{logger: logger}

	loggers := []log.Logger{log.NewSlogAdapter(logger)}

	if cfg.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, fmt.Errorf("event log: %w", err)
		}
		a.fileLog = fl
		loggers = append(loggers, fl)
	}

	if cfg.HistoryDB != "" {
		store, err := history.NewStore(cfg.HistoryDB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("history: %w", err)
		}
		a.store = store
		loggers = append(loggers, history.NewRecorder(store, logger))
	}

	sched, err := schedule.New(schedule.Config{
		Action:      cfg.Action(),
		EventLogger: log.NewMultiLogger(loggers...),
		Logger:      logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sched = sched

	return a, nil
}

// Close stops the scheduler (cancelling anything pending) and releases
// the event log and history database. Safe to call more than once.
func (a *app) Close() {
	if a.closed {
		return
	}
	a.closed = true

	if a.sched != nil {
		a.sched.Close()
	}
	if a.fileLog != nil {
		if err := a.fileLog.Err(); err != nil {
			a.logger.Warn("event log incomplete", "error", err)
		}
		a.fileLog.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
