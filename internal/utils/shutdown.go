package utils

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

type shutdownTask struct {
	name string
	fn   func(context.Context) error
}

// ShutdownManager cancels the application context on SIGINT/SIGTERM and then
// runs the registered teardown tasks in reverse registration order, so the
// HTTP server stops accepting requests before the stores behind it close.
type ShutdownManager struct {
	cancelFunc context.CancelFunc
	tasks      []shutdownTask
	done       chan struct{}
	once       sync.Once
	mu         sync.Mutex
}

func NewShutdownManager(ctx context.Context) (context.Context, *ShutdownManager) {
	ctx, cancel := context.WithCancel(ctx)
	manager := &ShutdownManager{
		cancelFunc: cancel,
		done:       make(chan struct{}),
	}
	return ctx, manager
}

// Register adds a named teardown task. Tasks run LIFO: register in startup
// order.
func (sm *ShutdownManager) Register(name string, task func(context.Context) error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.tasks = append(sm.tasks, shutdownTask{name: name, fn: task})
}

func (sm *ShutdownManager) StartListening() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("[SHUTDOWN] Caught %v, stopping PANTOUFLES backend", sig)
		sm.Shutdown()
	}()
}

// Shutdown cancels the application context, runs every task and releases
// Wait. Safe to call more than once; only the first call does the work.
func (sm *ShutdownManager) Shutdown() {
	sm.once.Do(func() {
		sm.cancelFunc()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		sm.mu.Lock()
		tasks := sm.tasks
		sm.mu.Unlock()

		for i := len(tasks) - 1; i >= 0; i-- {
			log.Printf("[SHUTDOWN] Stopping %s...", tasks[i].name)
			if err := tasks[i].fn(ctx); err != nil {
				log.Printf("[SHUTDOWN] %s: %v", tasks[i].name, err)
			}
		}

		close(sm.done)
	})
}

// Wait blocks until a shutdown has run to completion.
func (sm *ShutdownManager) Wait() {
	<-sm.done
}
