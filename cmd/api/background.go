package main

import (
	"context"
	"time"
)

// background runs fn on its own goroutine, tracked by the shutdown
// WaitGroup, with panic recovery so a failed mail or push send never
// takes the server down.
func (app *application) background(fn func()) {
	app.wg.Add(1)

	go func() {
		defer app.wg.Done()

		defer func() {
			if err := recover(); err != nil {
				app.logger.Errorw("background task panicked", "error", err)
			}
		}()

		fn()
	}()
}

// refreshHotSellingSlotsHourly recomputes the hot-selling flag on
// upcoming slots, once at startup and then every hour.
func (app *application) refreshHotSellingSlotsHourly() {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		refresh := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := app.store.Slots.RefreshHotSelling(ctx); err != nil {
				app.logger.Errorw("refreshing hot-selling slots", "error", err)
			}
		}

		refresh()
		for range ticker.C {
			refresh()
		}
	}()
}
