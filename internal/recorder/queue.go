package recorder

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/expinput/helpers"
	"github.com/temoto/expinput/helpers/atomic_clock"
	"github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/log2"
	"github.com/temoto/spq"
)

// Queue contract:
// - NewQueue fails only with invalid config or unusable persist path, network issues ignored
// - LogPresses/LogClicks block at most for disk write
// - batches are delivered in background at least once, in push order unless transport rejects
// - Close stops delivery, undelivered batches stay on disk for next run
type Queue struct { //nolint:maligned
	config    Config
	log       *log2.Log
	transport Transporter
	q         *spq.Queue
	stopCh    chan struct{}
	wg        sync.WaitGroup
	backoff   helpers.Backoff
	seq       uint64
	stat      Stat

	lastPush    atomic_clock.Clock
	lastDeliver atomic_clock.Clock
}

type Stat struct {
	Pushed    uint32
	Delivered uint32
	Retried   uint32
	Dropped   uint32
}

// compile-time interface compliance test
var _ input.Recorder = new(Queue)

// NewQueue with trans=nil uses MQTT transport.
func NewQueue(log *log2.Log, config Config, trans Transporter) (*Queue, error) {
	if config.PersistPath == "" {
		return nil, errors.NotValidf("recorder persist_path empty")
	}
	if config.Source == "" {
		config.Source = "expinput"
	}
	self := &Queue{
		config:    config,
		log:       log,
		transport: trans,
		stopCh:    make(chan struct{}),
		backoff: helpers.Backoff{
			Min: 100 * time.Millisecond,
			Max: helpers.IntSecondDefault(config.KeepaliveSec, 30*time.Second),
			K:   2,
		},
	}
	if self.config.LogDebug {
		self.log.SetLevel(log2.LDebug)
	}
	// test code sets trans
	if self.transport == nil {
		self.transport = &transportMqtt{}
	}
	if err := self.transport.Init(log, self.config); err != nil {
		return nil, errors.Annotate(err, "recorder transport")
	}
	var err error
	self.q, err = spq.Open(self.config.PersistPath)
	if err != nil {
		self.transport.Close()
		return nil, errors.Annotatef(err, "recorder queue path=%s", self.config.PersistPath)
	}

	self.wg.Add(1)
	go self.worker()
	return self, nil
}

func (self *Queue) LogPresses(ps []input.KeyPress) {
	if len(ps) == 0 {
		return
	}
	b := &Batch{Presses: make([]*KeyPress, len(ps))}
	for i, p := range ps {
		b.Presses[i] = &KeyPress{Key: p.Key, Time: int64(p.Time)}
	}
	self.push(b)
}

func (self *Queue) LogClicks(cs []input.Click) {
	if len(cs) == 0 {
		return
	}
	b := &Batch{Clicks: make([]*Click, len(cs))}
	for i, c := range cs {
		b.Clicks[i] = &Click{Button: c.Button, X: int32(c.X), Y: int32(c.Y), Time: int64(c.Time)}
	}
	self.push(b)
}

func (self *Queue) Stat() Stat {
	return Stat{
		Pushed:    atomic.LoadUint32(&self.stat.Pushed),
		Delivered: atomic.LoadUint32(&self.stat.Delivered),
		Retried:   atomic.LoadUint32(&self.stat.Retried),
		Dropped:   atomic.LoadUint32(&self.stat.Dropped),
	}
}

func (self *Queue) SinceLastPush() time.Duration    { return atomic_clock.Since(&self.lastPush) }
func (self *Queue) SinceLastDeliver() time.Duration { return atomic_clock.Since(&self.lastDeliver) }

func (self *Queue) Close() error {
	select {
	case <-self.stopCh:
		return nil
	default:
	}
	close(self.stopCh)
	err := self.q.Close()
	self.wg.Wait()
	self.transport.Close()
	return err
}

func (self *Queue) push(b *Batch) {
	b.Source = self.config.Source
	b.Logged = atomic_clock.Source()
	b.Seq = atomic.AddUint64(&self.seq, 1)
	if self.config.LogEvents {
		self.log.Debugf("recorder push %s", b.String())
	}
	buf := proto.NewBuffer(make([]byte, 0, 256))
	if err := buf.Marshal(b); err != nil {
		self.log.Errorf("CRITICAL recorder Marshal seq=%d err=%v", b.Seq, err)
		return
	}
	if err := self.q.Push(buf.Bytes()); err != nil {
		self.log.Errorf("recorder push seq=%d err=%v", b.Seq, err)
		atomic.AddUint32(&self.stat.Dropped, 1)
		return
	}
	atomic.AddUint32(&self.stat.Pushed, 1)
	self.lastPush.SetNow()
}

func (self *Queue) worker() {
	defer self.wg.Done()
	for {
		box, err := self.q.Peek()
		switch err {
		case nil:
			b := box.Bytes()
			if self.handle(b) {
				if err = self.q.Delete(box); err != nil {
					self.log.Errorf("recorder Delete b=%x err=%v", b, err)
				}
				continue
			}
			atomic.AddUint32(&self.stat.Retried, 1)
			if err = self.q.DeletePush(box); err != nil {
				self.log.Errorf("recorder DeletePush b=%x err=%v", b, err)
			}
			select {
			case <-time.After(self.backoff.DelayBefore()):
			case <-self.stopCh:
				return
			}

		case spq.ErrClosed:
			select {
			case <-self.stopCh: // success path
			default:
				self.log.Errorf("CRITICAL recorder spq closed unexpectedly")
			}
			return

		default:
			self.log.Errorf("CRITICAL recorder spq err=%v", err)
			select {
			case <-time.After(self.backoff.DelayAfter(false)):
			case <-self.stopCh:
				return
			}
		}
	}
}

// handle returns true when b must leave queue: delivered or corrupt.
func (self *Queue) handle(b []byte) bool {
	var batch Batch
	if err := proto.Unmarshal(b, &batch); err != nil {
		self.log.Errorf("recorder corrupt batch b=%x err=%v", b, err)
		atomic.AddUint32(&self.stat.Dropped, 1)
		return true
	}
	ok := self.transport.Send(b)
	self.backoff.Update(ok)
	if ok {
		atomic.AddUint32(&self.stat.Delivered, 1)
		self.lastDeliver.SetNow()
		self.log.Debugf("recorder delivered seq=%d presses=%d clicks=%d", batch.Seq, len(batch.Presses), len(batch.Clicks))
	}
	return ok
}
