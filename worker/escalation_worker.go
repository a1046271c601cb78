package worker

import (
	"log"
	"sync"
	"time"

	"emysore/service"
)

// EscalationWorker periodically runs the overdue-complaint sweep
type EscalationWorker struct {
	escalations *service.EscalationService
	interval    time.Duration
	stopChan    chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
}

// NewEscalationWorker creates a new escalation worker
func NewEscalationWorker(escalations *service.EscalationService, interval time.Duration) *EscalationWorker {
	return &EscalationWorker{
		escalations: escalations,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the periodic sweep. The first sweep runs immediately so a
// restart never delays escalation by a full interval.
func (w *EscalationWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		log.Println("Escalation worker is already running")
		return
	}

	w.running = true
	w.stopChan = make(chan struct{})
	log.Printf("Escalation worker started (interval %s)", w.interval)

	w.wg.Add(1)
	go w.run(w.stopChan)
}

// Stop signals the worker and waits for an in-flight sweep to finish. The
// worker may be started again afterwards; Start installs a fresh stop channel.
func (w *EscalationWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	w.mu.Unlock()

	log.Println("Stopping escalation worker...")
	w.wg.Wait()
	log.Println("Escalation worker stopped")
}

func (w *EscalationWorker) run(stopChan <-chan struct{}) {
	defer w.wg.Done()

	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-stopChan:
			return
		}
	}
}

func (w *EscalationWorker) sweep() {
	if _, err := w.escalations.ProcessEscalations(); err != nil {
		log.Printf("[ESCALATION] sweep failed: %v", err)
	}
}
