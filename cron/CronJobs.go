package cron

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"

	"papertrade.com/ledger"
)

// auditTimeout bounds one audit run.
const auditTimeout = 2 * time.Minute

type Auditor interface {
	Audit(ctx context.Context) ([]ledger.Discrepancy, error)
}

// StartScheduler runs RunAudit once, then on every tick of schedule (a cron
// expression with seconds). The returned scheduler is already started.
func StartScheduler(a Auditor, schedule string) (*cron.Cron, error) {
	RunAudit(context.Background(), a)

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		RunAudit(ctx, a)
	})
	if err != nil {
		log.Errorf("Failed to schedule ledger audit %q: %v", schedule, err)
		return nil, err
	}

	c.Start()
	log.Infof("Ledger audit scheduled: %s", schedule)
	return c, nil
}

// RunAudit logs every discrepancy between holdings and the transaction log
// and returns how many were found.
func RunAudit(ctx context.Context, a Auditor) int {
	log.Info("Starting ledger audit...")

	found, err := a.Audit(ctx)
	if err != nil {
		log.Errorf("Ledger audit failed: %v", err)
		return 0
	}

	for _, d := range found {
		log.Errorf("Ledger discrepancy: %s", d)
	}
	if len(found) == 0 {
		log.Info("Ledger audit completed, no discrepancies")
	} else {
		log.Warnf("Ledger audit completed with %d discrepancies", len(found))
	}
	return len(found)
}
