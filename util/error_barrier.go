package util

import (
	"sync/atomic"
)

// ErrorBarrier latches the first error checked in and panics with it. Paired
// with Recover + Catch it collapses a chain of fallible calls into a single
// error return.
type ErrorBarrier struct {
	active int32
	err    atomic.Value
}

func (this *ErrorBarrier) SetIfAbsent(err error) (hasSet bool) {
	if IsReallyNil(err) || !atomic.CompareAndSwapInt32(&this.active, 0, 1) {
		return false
	}
	this.err.Store(err)
	return true
}

func (this *ErrorBarrier) CheckIn(errors ...error) {
	this.PanicIfPresent()
	for _, err := range errors {
		if this.SetIfAbsent(err) {
			panic(err)
		}
	}
}

func (this *ErrorBarrier) PanicIfPresent() {
	if err := this.Get(); err != nil {
		panic(err)
	}
}

func (this *ErrorBarrier) Get() error {
	if err, present := this.err.Load().(error); present {
		return err
	}
	return nil
}

func (this *ErrorBarrier) Catch(handlers ...ErrorHandler) Predicate {
	return func(caught Any) bool {
		thisErr := this.Get()
		if thisErr == nil || caught != thisErr {
			return false
		}
		for _, handler := range handlers {
			handler(thisErr)
		}
		return true
	}
}
