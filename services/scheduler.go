package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartAutoFinalizeScheduler finalizes active competitions once their
// end_date passes. Enabled from main via the AUTO_FINALIZE env flag.
func (s *FinalizeService) StartAutoFinalizeScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: finalize competitions past their end date
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			comps, err := s.Store.CompetitionsDueForFinalize(time.Now())
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, comp := range comps {
				if _, err := s.Finalize(comp.UniqueID); err != nil {
					log.Printf("[Scheduler] Failed to finalize competition %s: %v", comp.UniqueID, err)
				} else {
					log.Printf("Auto-finalized competition: %s", comp.Name)
				}
			}
		}),
	)
}
