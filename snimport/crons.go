package main

import (
	cron "gopkg.in/robfig/cron.v2"
)

func doNow(o *ImportOrchestrator) {
	runScheduledImport(o, ModeEvent)
}

func startCrons(o *ImportOrchestrator) {
	if env.Production {
		go doNow(o)
	}

	c := cron.New()

	// events first so rsvps always find a reconciled event to attach to
	c.AddFunc("0 * * * *", func() {
		runScheduledImport(o, ModeEvent)
	})

	c.AddFunc("30 * * * *", func() {
		runScheduledImport(o, ModeRsvp)
	})

	c.AddFunc("TZ=America/Los_Angeles 0 3 * * *", func() {
		runScheduledImport(o, ModeEvent)
		runScheduledImport(o, ModeRsvp)
	})

	c.Start()
}

func runScheduledImport(o *ImportOrchestrator, mode ImportMode) {
	res, err := o.Run(mode, "")
	if err != nil {
		ErrorLog.Printf("scheduled %s import failed: %v\n", mode, err)
		return
	}

	InfoLog.Printf("scheduled %s import: tasks=%d events=%d rsvps=%d failures=%d\n",
		mode, res.Tasks, res.Events, res.Rsvps, res.Failures)
}
