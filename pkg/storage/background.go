package storage

import (
	"log/slog"
	"sync"
	"time"

	"github.com/adfharrison1/go-graph-index/pkg/indexing"
)

// Saver periodically writes engine snapshots to a file
type Saver struct {
	engine   *indexing.Engine
	filename string
	interval time.Duration
	logger   *slog.Logger

	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewSaver creates a saver. An interval of zero disables background saves;
// Save can still be called directly.
func NewSaver(engine *indexing.Engine, filename string, interval time.Duration, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{
		engine:   engine,
		filename: filename,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Save writes a snapshot now
func (s *Saver) Save() error {
	start := time.Now()
	if err := SaveSnapshot(s.filename, s.engine); err != nil {
		s.logger.Error("snapshot save failed", "file", s.filename, "error", err)
		return err
	}
	s.logger.Info("snapshot saved", "file", s.filename, "took", time.Since(start))
	return nil
}

// StartBackgroundWorkers starts the periodic save worker
func (s *Saver) StartBackgroundWorkers() {
	if s.interval <= 0 {
		return
	}

	s.backgroundWg.Add(1)
	go func() {
		defer s.backgroundWg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_ = s.Save()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops the worker and waits for it to exit
func (s *Saver) StopBackgroundWorkers() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.backgroundWg.Wait()
}
