// Package event provides the publish/subscribe plumbing used to announce
// grid mutations.
//
// A Bus keeps an ordered list of subscriptions and delivers each published
// event synchronously, in the publisher's goroutine, to every active
// subscription whose pattern matches the event topic. There is no queue and no
// worker pool: the grid model is single-writer and its observers (renderers,
// the application loop) expect to run before the mutating call returns.
//
// # Topics
//
// Topics use dot notation, for example "grid.changed". Subscription patterns
// may contain wildcards:
//
//	grid.*   - matches grid.changed, grid.cells (single segment)
//	grid.**  - matches grid.changed, grid.a.b (zero or more segments)
//
// # Basic Usage
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe("grid.changed", func(ctx context.Context, ev event.Event) error {
//	    redraw()
//	    return nil
//	})
//	defer sub.Cancel()
//
//	_ = bus.Publish(ctx, event.New("grid.changed", nil, "grid"))
//
// Handlers that panic are recovered; the panic is reported to the bus panic
// handler and delivery continues with the next subscription.
package event
