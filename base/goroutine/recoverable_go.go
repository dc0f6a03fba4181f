package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/auctionhouse/base/log"
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type RecoverableGoOptions struct {
	beforeStart    func()
	afterEnded     func()
	afterRecovered func(panic interface{}, stack []byte)
}

type RecoverableGoOptionsFunc = func(*RecoverableGoOptions)

func WithBeforeStart(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) {
		options.beforeStart = f
	}
}

func WithAfterEnded(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) {
		options.afterEnded = f
	}
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) {
		options.afterRecovered = f
	}
}

// Recover runs f on the calling goroutine and turns a panic into a PanicEvent
func Recover(f func(), fns ...RecoverableGoOptionsFunc) (evt *PanicEvent) {
	opts := RecoverableGoOptions{}
	for _, fn := range fns {
		fn(&opts)
	}

	defer func() {
		if opts.afterEnded != nil {
			opts.afterEnded()
		}

		if p := recover(); p != nil {
			stack := debug.Stack()

			log.Log().WithFields(log.Fields{
				"err":   p,
				"stack": string(stack),
			}).Error("panic")

			if opts.afterRecovered != nil {
				opts.afterRecovered(p, stack)
			}
			evt = &PanicEvent{p, stack}
		}
	}()

	if opts.beforeStart != nil {
		opts.beforeStart()
	}

	f()
	return nil
}

// RecoverableGo runs f on a new goroutine. The returned channel receives the
// PanicEvent if f panics, otherwise it is closed when f returns.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) chan *PanicEvent {
	panicChan := make(chan *PanicEvent, 1)

	go func() {
		if evt := Recover(f, fns...); evt != nil {
			panicChan <- evt
			return
		}
		close(panicChan)
	}()

	return panicChan
}
