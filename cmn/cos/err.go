// Package cos provides common low-level types and utilities.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package cos

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/plasmasync/plasmasync/cmn/nlog"
)

//
// IS-syscall helpers, consulted by the transport layer to decide whether a
// failed accept/dial is worth a log line at ERROR vs WARNING
//

func IsErrConnectionRefused(err error) bool { return errors.Is(err, syscall.ECONNREFUSED) }
func IsErrConnectionReset(err error) bool   { return errors.Is(err, syscall.ECONNRESET) }
func IsErrBrokenPipe(err error) bool        { return errors.Is(err, syscall.EPIPE) }

func IsRetriableConnErr(err error) bool {
	return IsErrConnectionRefused(err) || IsErrConnectionReset(err) || IsErrBrokenPipe(err)
}

//
// Abnormal Termination
//

const fatalPrefix = "FATAL ERROR: "

// +log
func ExitLogf(f string, a ...any) {
	msg := fmt.Sprintf(fatalPrefix+f, a...)
	if flag.Parsed() {
		nlog.ErrorDepth(1, msg)
		nlog.Flush(true)
	}
	_exit(msg)
}

func ExitLog(a ...any) {
	msg := fatalPrefix + fmt.Sprint(a...)
	if flag.Parsed() {
		nlog.ErrorDepth(1, msg)
		nlog.Flush(true)
	}
	_exit(msg)
}

func _exit(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
