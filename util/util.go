package util

import (
	"reflect"
	"sync"
)

type Any = interface{}

func IsReallyNil(value Any) bool {
	if value == nil {
		return true
	}
	switch reflectValue := reflect.ValueOf(value); reflectValue.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr,
		reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return reflectValue.IsNil()
	default:
		return false
	}
}

func Min(i, j int) int {
	if i < j {
		return i
	}
	return j
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func LockUnlock(l sync.Locker) func() {
	l.Lock()
	return l.Unlock
}
