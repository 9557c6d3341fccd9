package recorder

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/protobuf/descriptor"
	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/log2"
	"github.com/temoto/spq"
)

type transportMock struct {
	t       testing.TB
	initErr error
	fail    int32 // reject this many sends first
	outCh   chan []byte
	closed  int32
}

func newTransportMock(t testing.TB) *transportMock {
	return &transportMock{t: t, outCh: make(chan []byte, 16)}
}

func (self *transportMock) Init(log *log2.Log, config Config) error { return self.initErr }
func (self *transportMock) Send(payload []byte) bool {
	if atomic.AddInt32(&self.fail, -1) >= 0 {
		self.t.Logf("mock send reject payload=%x", payload)
		return false
	}
	self.outCh <- append([]byte(nil), payload...)
	return true
}
func (self *transportMock) Close() { atomic.StoreInt32(&self.closed, 1) }

func (self *transportMock) next(t testing.TB) *Batch {
	select {
	case b := <-self.outCh:
		var batch Batch
		require.NoError(t, proto.Unmarshal(b, &batch))
		return &batch
	case <-time.After(5 * time.Second):
		t.Fatal("transport mock no payload")
		return nil
	}
}

func newTestQueue(t testing.TB, trans Transporter) *Queue {
	q, err := NewQueue(log2.NewTest(t, log2.LDebug), Config{PersistPath: spq.OnlyForTesting, Source: "test", LogEvents: true}, trans)
	require.NoError(t, err)
	return q
}

func TestQueueDeliver(t *testing.T) {
	t.Parallel()
	trans := newTransportMock(t)
	q := newTestQueue(t, trans)
	defer q.Close()

	q.LogPresses([]input.KeyPress{{Key: "a", Time: 1500 * time.Millisecond}, {Key: "escape", Time: 2 * time.Second}})
	q.LogClicks([]input.Click{{Button: "left", X: -3, Y: 40, Time: time.Second}})
	q.LogPresses(nil)

	b1 := trans.next(t)
	assert.Equal(t, "test", b1.Source)
	assert.Equal(t, uint64(1), b1.Seq)
	assert.NotZero(t, b1.Logged)
	require.Len(t, b1.Presses, 2)
	assert.Equal(t, "a", b1.Presses[0].Key)
	assert.Equal(t, int64(1500*time.Millisecond), b1.Presses[0].Time)
	assert.Equal(t, "escape", b1.Presses[1].Key)

	b2 := trans.next(t)
	assert.Equal(t, uint64(2), b2.Seq)
	require.Len(t, b2.Clicks, 1)
	assert.Equal(t, &Click{Button: "left", X: -3, Y: 40, Time: int64(time.Second)}, b2.Clicks[0])

	stat := q.Stat()
	assert.Equal(t, uint32(2), stat.Pushed)
	assert.NotZero(t, q.SinceLastPush())
}

func TestQueueRetry(t *testing.T) {
	t.Parallel()
	trans := newTransportMock(t)
	trans.fail = 2
	q := newTestQueue(t, trans)

	q.LogPresses([]input.KeyPress{{Key: "space", Time: time.Second}})
	b := trans.next(t)
	assert.Equal(t, "space", b.Presses[0].Key)
	require.NoError(t, q.Close())
	stat := q.Stat()
	assert.Equal(t, uint32(2), stat.Retried)
	assert.Equal(t, uint32(1), stat.Delivered)
	assert.Equal(t, int32(1), atomic.LoadInt32(&trans.closed))
	require.NoError(t, q.Close(), "second close")
}

func TestQueueConfig(t *testing.T) {
	t.Parallel()
	log := log2.NewTest(t, log2.LDebug)
	_, err := NewQueue(log, Config{}, newTransportMock(t))
	assert.True(t, errors.IsNotValid(err), errors.ErrorStack(err))

	trans := newTransportMock(t)
	trans.initErr = errors.New("no route")
	_, err = NewQueue(log, Config{PersistPath: spq.OnlyForTesting}, trans)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route")

	_, err = NewQueue(log, Config{PersistPath: spq.OnlyForTesting}, nil)
	assert.True(t, errors.IsNotValid(err), "mqtt without broker")
}

func TestQueueCorrupt(t *testing.T) {
	t.Parallel()
	trans := newTransportMock(t)
	q := newTestQueue(t, trans)
	defer q.Close()
	assert.True(t, q.handle([]byte{0xff, 0xff, 0xff}))
	assert.Equal(t, uint32(1), q.Stat().Dropped)
	select {
	case <-trans.outCh:
		t.Fatal("corrupt batch delivered")
	default:
	}
}

func TestMemoryMulti(t *testing.T) {
	t.Parallel()
	mem1, mem2 := &Memory{}, &Memory{}
	r := Multi{mem1, mem2, &Log{L: log2.NewTest(t, log2.LDebug)}}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.LogPresses([]input.KeyPress{{Key: "x"}})
			r.LogClicks([]input.Click{{Button: "right"}})
		}()
	}
	wg.Wait()
	assert.Len(t, mem1.Presses(), 4)
	assert.Len(t, mem2.Clicks(), 4)
	mem1.Reset()
	assert.Len(t, mem1.Presses(), 0)
	assert.Len(t, mem1.Clicks(), 0)
	assert.Len(t, mem2.Presses(), 4)
}

// Struct tags must agree with the embedded record.proto descriptor.
func TestRecordDescriptor(t *testing.T) {
	t.Parallel()
	cases := []struct {
		msg  descriptor.Message
		name string
	}{
		{&KeyPress{}, "KeyPress"},
		{&Click{}, "Click"},
		{&Batch{}, "Batch"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			fd, md := descriptor.ForMessage(c.msg)
			assert.Equal(t, "record.proto", fd.GetName())
			assert.Equal(t, "recorder", fd.GetPackage())
			assert.Equal(t, c.name, md.GetName())
			assert.Equal(t, reflect.TypeOf(c.msg), proto.MessageType("recorder."+c.name))

			tags := make(map[string]int)
			for _, p := range proto.GetProperties(reflect.TypeOf(c.msg).Elem()).Prop {
				if p.Tag != 0 {
					tags[p.OrigName] = p.Tag
				}
			}
			require.Len(t, tags, len(md.GetField()))
			for _, f := range md.GetField() {
				assert.Equal(t, int(f.GetNumber()), tags[f.GetName()], "field=%s", f.GetName())
			}
		})
	}
}

func TestMqttTimeouts(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		config Config
		expect mqttTimeouts
	}{
		{"default", Config{}, mqttTimeouts{keepalive: time.Minute, ping: 30 * time.Second, send: 5 * time.Second, retry: 30 * time.Second}},
		{"independent-send", Config{KeepaliveSec: 20, PingTimeoutSec: 7, SendTimeoutSec: 2},
			mqttTimeouts{keepalive: 20 * time.Second, ping: 7 * time.Second, send: 2 * time.Second, retry: 10 * time.Second}},
		{"ping-only", Config{PingTimeoutSec: 9},
			mqttTimeouts{keepalive: time.Minute, ping: 9 * time.Second, send: 5 * time.Second, retry: 30 * time.Second}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, c.expect, newMqttTimeouts(c.config))
		})
	}
}
