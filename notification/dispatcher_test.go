package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	channel string
	err     error

	mu    sync.Mutex
	sends []string
}

func (f *fakeSender) Send(ctx context.Context, recipient, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, recipient)
	return f.err
}

func (f *fakeSender) Channel() string { return f.channel }

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sends...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcherDeliversToBothChannels(t *testing.T) {
	email := &fakeSender{channel: "email"}
	sms := &fakeSender{channel: "sms"}
	d := NewDispatcher(email, sms, 16, time.Second)
	d.Start(2)
	defer d.Stop()

	d.Enqueue(Delivery{
		Email:   "asha@example.com",
		Phone:   "+918012345678",
		Subject: "Complaint Filed Successfully",
		Body:    "Your complaint has been filed with ID #42",
	})

	waitFor(t, func() bool {
		return len(email.recipients()) == 1 && len(sms.recipients()) == 1
	})
	assert.Equal(t, []string{"asha@example.com"}, email.recipients())
	assert.Equal(t, []string{"+918012345678"}, sms.recipients())
}

func TestDispatcherSkipsEmptyChannels(t *testing.T) {
	email := &fakeSender{channel: "email"}
	sms := &fakeSender{channel: "sms"}
	d := NewDispatcher(email, sms, 16, time.Second)
	d.Start(1)
	defer d.Stop()

	d.Enqueue(Delivery{Email: "asha@example.com", Subject: "s", Body: "b"})

	waitFor(t, func() bool { return len(email.recipients()) == 1 })
	assert.Empty(t, sms.recipients())
}

func TestDispatcherChannelFailuresAreIndependent(t *testing.T) {
	email := &fakeSender{channel: "email", err: errors.New("gateway down")}
	sms := &fakeSender{channel: "sms"}
	d := NewDispatcher(email, sms, 16, time.Second)
	d.Start(1)
	defer d.Stop()

	d.Enqueue(Delivery{
		Email:   "asha@example.com",
		Phone:   "+918012345678",
		Subject: "s",
		Body:    "b",
	})

	// the failed email attempt must not prevent the SMS attempt
	waitFor(t, func() bool { return len(sms.recipients()) == 1 })
	assert.Equal(t, []string{"asha@example.com"}, email.recipients())
}

func TestDispatcherEnqueueNeverBlocksWhenQueueFull(t *testing.T) {
	// workers never started, so a full queue drops instead of blocking
	d := NewDispatcher(&fakeSender{channel: "email"}, &fakeSender{channel: "sms"}, 1, time.Second)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Enqueue(Delivery{Email: "asha@example.com", Subject: "s", Body: "b"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	d := NewDispatcher(&fakeSender{channel: "email"}, &fakeSender{channel: "sms"}, 4, time.Second)
	d.Start(1)

	d.Stop()
	require.NotPanics(t, d.Stop)
}

func TestDispatcherStartTwiceKeepsRunning(t *testing.T) {
	email := &fakeSender{channel: "email"}
	d := NewDispatcher(email, &fakeSender{channel: "sms"}, 4, time.Second)
	d.Start(1)
	d.Start(1)
	defer d.Stop()

	d.Enqueue(Delivery{Email: "asha@example.com", Subject: "s", Body: "b"})
	waitFor(t, func() bool { return len(email.recipients()) == 1 })
}

func TestDispatcherRestartsAfterStop(t *testing.T) {
	email := &fakeSender{channel: "email"}
	d := NewDispatcher(email, &fakeSender{channel: "sms"}, 4, time.Second)

	d.Start(1)
	d.Enqueue(Delivery{Email: "asha@example.com", Subject: "s", Body: "b"})
	waitFor(t, func() bool { return len(email.recipients()) == 1 })
	d.Stop()

	d.Start(1)
	defer d.Stop()

	d.Enqueue(Delivery{Email: "ravi@example.com", Subject: "s", Body: "b"})
	waitFor(t, func() bool { return len(email.recipients()) == 2 })
	assert.Equal(t, []string{"asha@example.com", "ravi@example.com"}, email.recipients())
}
