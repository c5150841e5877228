package scheduler

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"rentsafe/server/internal/compliance"
	"rentsafe/server/internal/database"
	"rentsafe/server/internal/models"
	"rentsafe/server/internal/notify"
)

// Scheduler runs the daily compliance sweep: for every owner with alerts
// enabled, derive each document's status and send an alert for anything
// expired or inside the expiry window.
type Scheduler struct {
	db         *database.Database
	notifier   *notify.Service
	logger     *logrus.Logger
	sweepHour  int
	windowDays int
	stopChan   chan struct{}
	wg         sync.WaitGroup
	jobMutex   sync.Mutex // Ensures sequential sweep execution
}

func NewScheduler(db *database.Database, notifier *notify.Service, logger *logrus.Logger, sweepHour, windowDays int) *Scheduler {
	return &Scheduler{
		db:         db,
		notifier:   notifier,
		logger:     logger,
		sweepHour:  sweepHour,
		windowDays: windowDays,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case t := <-ticker.C:
			if t.Hour() == s.sweepHour && t.Minute() == 0 {
				s.logger.Info("Starting scheduled compliance sweep")
				s.RunSweep(t)
				s.logger.Info("Completed scheduled compliance sweep")
			}
		}
	}
}

// RunSweep performs one compliance sweep at the given time. Exported so
// it can be triggered outside the schedule.
func (s *Scheduler) RunSweep(now time.Time) {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	configs, err := s.db.ListEnabledAlertConfigs()
	if err != nil {
		s.logger.WithError(err).Error("Failed to load alert configs for sweep")
		return
	}

	for _, cfg := range configs {
		s.sweepOwner(cfg, now)
	}
}

func (s *Scheduler) sweepOwner(cfg models.AlertConfig, now time.Time) {
	documents, err := s.db.ListOwnerDocuments(cfg.OwnerID)
	if err != nil {
		s.logger.WithError(err).WithField("owner", cfg.OwnerID).
			Error("Failed to load documents for sweep")
		return
	}

	var alerted int
	for _, doc := range documents {
		status := compliance.DocumentStatus(doc.ExpiryDate, now, s.windowDays)
		if status != models.DocumentStatusExpired && status != models.DocumentStatusExpiring {
			continue
		}

		if err := s.notifier.NotifyDocumentAlert(&cfg, doc, status); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"owner":    cfg.OwnerID,
				"document": doc.ID,
			}).Error("Failed to send compliance alert")
			continue
		}
		alerted++
	}

	s.logger.WithFields(logrus.Fields{
		"owner":     cfg.OwnerID,
		"documents": len(documents),
		"alerts":    alerted,
	}).Info("Compliance sweep completed for owner")
}
