package transport

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/av2bridge/internal/logging"
	"github.com/muurk/av2bridge/internal/metrics"
	"github.com/muurk/av2bridge/internal/protocol"
)

// Transmit timing constants. The processor shares one half-duplex channel
// between commands and unsolicited status pushes and needs settling time
// between commands; violating these gaps makes it drop or garble frames.
const (
	// TickPeriod is how often the queue checks for pending commands.
	TickPeriod = 25 * time.Millisecond

	// MinCommandGap is the minimum time between the completion of one
	// command and the start of the next.
	MinCommandGap = 105 * time.Millisecond

	// IdleThreshold is the link-idle time after which the device needs an
	// extra wake delay before a frame registers.
	IdleThreshold = 200 * time.Millisecond

	// WakeDelay is the extra pause inserted after the attention byte when
	// the link has been idle longer than IdleThreshold.
	WakeDelay = 25 * time.Millisecond
)

// Queue serialises command payloads onto the channel, one frame in flight
// at a time, respecting the device's inter-command timing. Enqueue never
// blocks and never rejects; there is no priority and no deduplication.
//
// Transmission is two-phase: a lone attention byte (the 0x2A header) is
// written and drained first, then the complete frame. The device's receiver
// requires this split; collapsing it into one write is a protocol
// violation.
type Queue struct {
	ch Channel

	mu      sync.Mutex
	pending [][]byte
	busy    bool
	lastEnd time.Time

	// Injectable for tests.
	now   func() time.Time
	sleep func(time.Duration)

	stop chan struct{}
	done chan struct{}
}

// NewQueue creates a transmit queue over the given channel. Start must be
// called before enqueued commands are sent.
func NewQueue(ch Channel) *Queue {
	return &Queue{
		ch:    ch,
		now:   time.Now,
		sleep: time.Sleep,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Enqueue appends a command payload to the FIFO. The payload is owned by
// the queue from this point until it is transmitted or dropped.
func (q *Queue) Enqueue(payload []byte) {
	q.mu.Lock()
	q.pending = append(q.pending, payload)
	depth := len(q.pending)
	q.mu.Unlock()

	metrics.QueueDepth.Set(float64(depth))
	logging.Debug("Command enqueued",
		zap.String("payload", logging.Hex(payload)),
		zap.Int("queue_depth", depth),
	)
}

// Depth returns the number of commands waiting for transmission.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Start launches the dispatch loop. The loop ticks every TickPeriod and
// transmits at most one frame per pass.
func (q *Queue) Start() {
	go q.run()
}

// Stop terminates the dispatch loop. A transmission already in progress
// completes first; remaining queued commands are discarded with the queue.
func (q *Queue) Stop() {
	close(q.stop)
	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	ticker := time.NewTicker(TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-q.stop:
			return
		case <-ticker.C:
			q.tick()
		}
	}
}

// tick dequeues and transmits the head command. It is a no-op while a send
// is in progress or the queue is empty; the busy flag is what guarantees a
// single frame in flight.
func (q *Queue) tick() {
	q.mu.Lock()
	if q.busy || len(q.pending) == 0 {
		q.mu.Unlock()
		return
	}
	q.busy = true
	payload := q.pending[0]
	q.pending = q.pending[1:]
	depth := len(q.pending)
	q.mu.Unlock()

	metrics.QueueDepth.Set(float64(depth))
	q.transmit(payload)

	q.mu.Lock()
	q.busy = false
	q.mu.Unlock()
}

// transmit performs the timed two-phase write of one command frame.
//
// Failed sends are logged and dropped: no retry, no requeue. The caller
// may restart the whole engine on sustained channel failure, but that is
// an operational decision outside the queue.
func (q *Queue) transmit(payload []byte) {
	elapsed := q.now().Sub(q.lastEnd)

	// Enforce the settling gap between the previous command's completion
	// and this command's start.
	if elapsed < MinCommandGap {
		q.sleep(MinCommandGap - elapsed)
	}

	// Attention byte first, drained on its own. This wakes the device's
	// receiver before the real frame arrives.
	if err := q.writeAndDrain([]byte{protocol.CommandHeader}); err != nil {
		q.sendFailed(payload, err)
		return
	}

	// A link idle for a while needs extra time after the attention byte.
	if elapsed > IdleThreshold {
		q.sleep(WakeDelay)
	}

	frame := protocol.Encode(payload)
	if err := q.writeAndDrain(frame); err != nil {
		q.sendFailed(payload, err)
		return
	}

	q.lastEnd = q.now()
	metrics.CommandsSent.Inc()
	logging.Debug("Command transmitted", zap.String("frame", logging.Hex(frame)))
}

func (q *Queue) writeAndDrain(data []byte) error {
	if _, err := q.ch.Write(data); err != nil {
		return err
	}
	return q.ch.Drain()
}

func (q *Queue) sendFailed(payload []byte, err error) {
	// Record the attempt's end anyway so the next command still honours
	// the settling gap.
	q.lastEnd = q.now()
	metrics.CommandErrors.Inc()
	logging.Error("Command send failed, payload dropped",
		zap.String("payload", logging.Hex(payload)),
		zap.Error(err),
	)
}
