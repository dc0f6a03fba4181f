package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/goroutine"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain"
)

const (
	defaultWorkers  = 8
	scheduleTimeout = 3 * time.Second
)

type DispatcherCfg struct {
	Sinks []domain.EventSink
	// Workers bounds the sends in flight, 0 means defaultWorkers
	Workers int
}

// Dispatcher fans every event out to all sinks on a worker pool. A slow or
// failing sink is logged and never reported back to the caller.
type Dispatcher struct {
	sinks      []domain.EventSink
	workerPool *goroutines.Pool
	met        metrics.Service
}

func New(cfg *DispatcherCfg) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Dispatcher{
		sinks:      cfg.Sinks,
		workerPool: goroutines.NewPool(workers, goroutines.WithTaskQueueLength(1024), goroutines.WithPreAllocWorkers(workers/2)),
		met:        metrics.New("notify"),
	}
}

func (d *Dispatcher) Notify(c ctx.Ctx, evt domain.Event) {
	if evt.Id == "" {
		evt.Id = uuid.NewString()
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	// the request may be gone before the sinks run
	bg := ctx.Ctx{
		Context: context.Background(),
		Logger:  c.WithFields(log.Fields{"eventId": evt.Id, "eventType": evt.Type}),
	}

	for _, sink := range d.sinks {
		sink := sink
		err := d.workerPool.ScheduleWithTimeout(scheduleTimeout, func() {
			d.send(bg, sink, evt)
		})
		if err != nil {
			bg.WithFields(log.Fields{"err": err, "sink": sink.Name()}).Warn("workerPool.ScheduleWithTimeout failed")
			d.met.BumpSum("drop.count", 1, "sink", sink.Name())
		}
	}
}

func (d *Dispatcher) send(c ctx.Ctx, sink domain.EventSink, evt domain.Event) {
	defer d.met.BumpTime("send.time", "sink", sink.Name()).End()

	var err error
	if pe := goroutine.Recover(func() { err = sink.Send(c, evt) }); pe != nil {
		c.WithFields(log.Fields{"panic": pe.Panic, "sink": sink.Name()}).Error("sink panicked")
		d.met.BumpSum("send.err", 1, "sink", sink.Name())
		return
	}
	if err != nil {
		c.WithFields(log.Fields{"err": err, "sink": sink.Name()}).Warn("sink.Send failed")
		d.met.BumpSum("send.err", 1, "sink", sink.Name())
		return
	}
	d.met.BumpSum("send.count", 1, "sink", sink.Name())
}

// Close waits for the queued sends and stops the workers
func (d *Dispatcher) Close() {
	d.workerPool.Release()
}
