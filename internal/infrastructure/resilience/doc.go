/*
Package resilience provides a circuit breaker for collaborators that can fail
repeatedly, such as the desktop launcher behind "open".

# Usage

	breaker := resilience.New("launcher", resilience.Settings{
		Threshold: 5,
		Cooldown:  30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("breaker", zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	err := breaker.Do(func() error {
		return launch()
	})
	if errors.Is(err, resilience.ErrOpen) {
		// skipped
	}

# States

	Closed --[Threshold failures]-> Open --[Cooldown]-> Half-Open --[trial ok]-> Closed
	                                  ^                     |
	                                  +----[trial failed]---+
*/
package resilience
