// services/scheduler.go
package services

import (
	"log"
	"time"

	"seefinish-platform/models"

	"github.com/go-co-op/gocron/v2"
)

// ViralLikesThreshold: roasts at or above this many likes get flagged.
const ViralLikesThreshold = 50

// StartViralScheduler flags viral roasts once a minute. The flag only ever
// goes on; dropping back under the threshold does not unflag.
func (s *RoastService) StartViralScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			res := s.DB.Model(&models.Roast{}).
				Where("is_viral = ? AND likes_count >= ?", false, ViralLikesThreshold).
				Update("is_viral", true)
			if res.Error != nil {
				log.Printf("[Scheduler] viral flagging failed: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("🔥 Flagged %d roast(s) as viral", res.RowsAffected)
			}
		}),
	)
}

// StartRankScheduler re-applies the XP rank ladder every 5 minutes so rows
// written by the sync worker (which bypasses AwardXP) converge to the
// right label.
func (s *ProfileService) StartRankScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			for i, rung := range rankLadder {
				q := s.DB.Model(&models.Profile{}).
					Where("xp_points >= ? AND rank <> ?", rung.MinXP, rung.Label)
				if i > 0 {
					q = q.Where("xp_points < ?", rankLadder[i-1].MinXP)
				}
				if err := q.Update("rank", rung.Label).Error; err != nil {
					log.Printf("[Scheduler] rank recompute failed for %s: %v", rung.Label, err)
				}
			}
		}),
	)
}
