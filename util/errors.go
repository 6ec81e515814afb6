package util

import (
	"errors"
	"strings"
)

type ErrorHandler func(_ error)

type Predicate func(_ Any) bool

type ErrorString string

func (this ErrorString) Error() string {
	return string(this)
}

func Stringify(err_ptr *error) {
	if err := *err_ptr; err != nil {
		*err_ptr = ErrorString(err.Error())
	}
}

func SetTo(errPtr *error) ErrorHandler {
	return func(err error) {
		*errPtr = err
	}
}

func CatchAnyErr(handlers ...ErrorHandler) Predicate {
	return func(caught Any) bool {
		if err, isErr := caught.(error); isErr {
			for _, handler := range handlers {
				handler(err)
			}
			return true
		}
		return false
	}
}

func Recover(errorFilters ...Predicate) (caught Any) {
	if caught = recover(); caught != nil {
		if !AnyMatches(caught, errorFilters...) {
			panic(caught)
		}
	}
	return
}

func AnyMatches(obj Any, handlers ...Predicate) bool {
	if len(handlers) == 0 {
		return true
	}
	for _, handler := range handlers {
		if handler(obj) {
			return true
		}
	}
	return false
}

func PanicIfNotNil(value Any) bool {
	if !IsReallyNil(value) {
		panic(value)
	}
	return true
}

func Assert(condition bool, msg ...string) bool {
	if !condition {
		panic(errors.New(strings.Join(msg, " ")))
	}
	return true
}
