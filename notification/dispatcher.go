package notification

import (
	"context"
	"log"
	"sync"
	"time"
)

// Delivery is one best-effort fan-out over the external channels. An empty
// Email or Phone skips that channel.
type Delivery struct {
	Email   string
	Phone   string
	Subject string
	Body    string
}

// Dispatcher fans deliveries out over email and SMS on a fixed pool of worker
// goroutines. Callers enqueue after their own database write has committed;
// nothing here ever reaches back into the triggering operation. Each channel
// attempt is bounded by its own timeout and failures are only logged, so a
// slow or dead gateway cannot stall callers or starve the other channel.
type Dispatcher struct {
	email   Sender
	sms     Sender
	timeout time.Duration
	jobs    chan Delivery
	quit    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewDispatcher creates a dispatcher with a bounded queue
func NewDispatcher(email, sms Sender, queueSize int, timeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		email:   email,
		sms:     sms,
		timeout: timeout,
		jobs:    make(chan Delivery, queueSize),
		quit:    make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (d *Dispatcher) Start(workers int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		log.Println("Notification dispatcher is already running")
		return
	}
	if workers <= 0 {
		workers = 1
	}

	d.running = true
	d.quit = make(chan struct{})
	log.Printf("Notification dispatcher started (%d workers)", workers)

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run(d.quit)
	}
}

// Stop signals the workers and waits for in-flight deliveries to finish.
// Queued deliveries that no worker picked up stay buffered until a later
// Start, and are dropped on process exit; delivery is best effort by
// contract. Start installs a fresh quit channel, so the dispatcher may be
// restarted.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.quit)
	d.mu.Unlock()

	log.Println("Stopping notification dispatcher...")
	d.wg.Wait()
	log.Println("Notification dispatcher stopped")
}

// Enqueue submits a delivery without blocking the caller. When the queue is
// full the delivery is dropped with a log line rather than delaying the
// operation that produced it.
func (d *Dispatcher) Enqueue(delivery Delivery) {
	select {
	case d.jobs <- delivery:
	default:
		log.Printf("[NOTIFY] dispatch queue full, dropping delivery %q", delivery.Subject)
	}
}

func (d *Dispatcher) run(quit <-chan struct{}) {
	defer d.wg.Done()
	for {
		select {
		case delivery := <-d.jobs:
			d.deliver(delivery)
		case <-quit:
			return
		}
	}
}

// deliver attempts each channel independently; one channel's failure never
// affects the other.
func (d *Dispatcher) deliver(delivery Delivery) {
	if delivery.Email != "" {
		d.sendWithTimeout(d.email, delivery.Email, delivery.Subject, delivery.Body)
	}
	if delivery.Phone != "" {
		d.sendWithTimeout(d.sms, delivery.Phone, delivery.Subject, delivery.Body)
	}
}

func (d *Dispatcher) sendWithTimeout(sender Sender, recipient, subject, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := sender.Send(ctx, recipient, subject, body); err != nil {
		log.Printf("[NOTIFY] %s delivery to %s failed: %v", sender.Channel(), recipient, err)
	}
}
