package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorStoreUnavailable marks failures of the underlying data store (connectivity,
// timeout). Callers map it to a generic server error; the cause stays in the wrap.
var ErrorStoreUnavailable = errors.New("store unavailable")

var ErrorDivisionByZero = errors.New("division by zero")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
