// Package event provides a pub-sub event bus that decouples the bracket
// engine from everything that watches it.
//
// The engine publishes; commentary output, the terminal dashboard and the
// Prometheus recorder subscribe. None of them is called directly by the
// engine, so a slow or broken observer cannot change bracket semantics.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Tournament:
//   - [TournamentStartedEvent], [TournamentFinishedEvent], [RoundCompletedEvent]
//
// Match:
//   - [MatchStartedEvent], [GoalScoredEvent], [PenaltyKickEvent], [MatchFinishedEvent]
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. In auto mode every match
// runner publishes from its own goroutine, so handlers run concurrently and
// must synchronize any state they keep. A panicking handler is recovered and
// logged and does not prevent delivery to other handlers.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//
//	bus.Subscribe(event.TypeMatchFinished, func(e event.Event) {
//	    done := e.(event.MatchFinishedEvent)
//	    fmt.Printf("%s won\n", done.Winner().Name)
//	})
//
//	bus.SubscribeAll(func(e event.Event) {
//	    logger.Debug("event", "type", e.EventType())
//	})
package event
