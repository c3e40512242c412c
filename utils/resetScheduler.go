package utils

import (
	"fmt"
	"log"
	"time"

	"pixbank/store"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[RESET-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartResetPurgeScheduler runs an hourly job that discards used and expired
// password reset codes.
func StartResetPurgeScheduler(st store.Store) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		purged, err := st.PurgeExpiredPasswordResets(time.Now())
		if err != nil {
			logScheduler("Error purging reset codes: " + err.Error())
			return
		}
		if purged > 0 {
			logScheduler(fmt.Sprintf("Purged %d reset codes", purged))
		}
	})
	if err != nil {
		logScheduler("Error scheduling reset purge: " + err.Error())
		return c
	}

	c.Start()
	logScheduler("Reset code purge scheduled hourly")
	return c
}
