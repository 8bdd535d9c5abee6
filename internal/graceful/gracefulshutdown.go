package graceful

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Operation is a named cleanup step executed on shutdown.
type Operation func(ctx context.Context) error

// Shutdown waits for a termination signal, then runs all cleanup
// operations concurrently under a shared timeout. The returned channel
// closes once every operation has finished.
func Shutdown(ctx context.Context, timeout time.Duration, ops map[string]Operation, logger *slog.Logger) <-chan struct{} {
	log := logger.With(
		slog.String("op", "graceful.Shutdown()"))

	wait := make(chan struct{})
	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		<-s

		log.Info("shutting down")

		ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var wg sync.WaitGroup
		for name, operation := range ops {
			wg.Add(1)
			go func(name string, operation Operation) {
				defer wg.Done()

				log.Info("cleaning up", slog.String("process", name))
				if err := operation(ctxTimeout); err != nil {
					log.Error("error clean up",
						slog.String("process", name),
						slog.String("error", err.Error()))
					return
				}

				log.Info("shutdown gracefully", slog.String("process", name))
			}(name, operation)
		}

		wg.Wait()
		log.Info("graceful shutdown completed")

		close(wait)
	}()

	return wait
}
