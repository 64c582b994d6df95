// Package nlog is plasmasync's logger: buffering, timestamping, writing, and
// flushing/rotating, by severity.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package nlog

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/plasmasync/plasmasync/cmn/mono"
)

const maxLineSize = 2 * 1024

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var sevChar = "IWE"

type nlog struct {
	mu      sync.Mutex
	w       *bufio.Writer
	file    *os.File
	written int64
	last    int64
	sev     severity
}

var (
	nlogs = [...]*nlog{
		sevInfo: {sev: sevInfo},
		sevErr:  {sev: sevErr},
	}

	toStderr     bool
	alsoToStderr bool

	logDir  string
	roleTag string
	title   string

	onceInitFiles sync.Once
)

func InitFlags(flset *flag.FlagSet) {
	flset.BoolVar(&toStderr, "logtostderr", false, "log to standard error instead of files")
	flset.BoolVar(&alsoToStderr, "alsologtostderr", false, "log to standard error as well as files")
}

func InfoDepth(depth int, args ...any)    { log(sevInfo, depth, "", args...) }
func Infoln(args ...any)                  { log(sevInfo, 0, "", args...) }
func Infof(format string, args ...any)    { log(sevInfo, 0, format, args...) }
func Warningln(args ...any)               { log(sevWarn, 0, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, 0, format, args...) }
func ErrorDepth(depth int, args ...any)   { log(sevErr, depth, "", args...) }
func Errorln(args ...any)                 { log(sevErr, 0, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, 0, format, args...) }

func SetLogDirRole(dir, role string) { logDir, roleTag = dir, role }
func SetTitle(s string)              { title = s }

func InfoLogName() string { return sname() + ".INFO" }
func ErrLogName() string  { return sname() + ".ERROR" }

func log(sev severity, depth int, format string, args ...any) {
	onceInitFiles.Do(initFiles)

	line := format1(sev, depth+1, format, args...)

	if !flag.Parsed() || toStderr || alsoToStderr || sev >= sevWarn {
		os.Stderr.WriteString(line)
	}
	if toStderr {
		return
	}

	if sev >= sevWarn {
		nlogs[sevErr].write(line)
	}
	nlogs[sevInfo].write(line)
}

func (n *nlog) write(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.w == nil {
		n.w = bufio.NewWriterSize(discard{}, maxLineSize)
	}
	n.w.WriteString(line)
	n.written += int64(len(line))
	n.last = mono.NanoTime()
	if n.w.Buffered() >= maxLineSize || n.written >= MaxSize {
		n.flushLocked()
	}
	if n.written >= MaxSize && n.file != nil {
		n.rotateLocked(time.Now())
	}
}

func (n *nlog) flushLocked() {
	if n.w != nil {
		_ = n.w.Flush()
	}
}

func (n *nlog) rotateLocked(now time.Time) {
	if n.file != nil {
		_ = n.file.Sync()
		_ = n.file.Close()
		n.file = nil
	}
	if logDir == "" {
		return
	}
	f, err := fcreate(sevName[n.sev], now)
	if err != nil {
		return
	}
	n.file = f
	n.w = bufio.NewWriterSize(f, maxLineSize)
	n.written = 0
}

var MaxSize int64 = 4 * 1024 * 1024

var sevName = [...]string{sevInfo: "INFO", sevWarn: "WARNING", sevErr: "ERROR"}

func initFiles() {
	if logDir == "" {
		return
	}
	now := time.Now()
	for _, sev := range []severity{sevInfo, sevErr} {
		n := nlogs[sev]
		if f, err := fcreate(sevName[sev], now); err == nil {
			n.mu.Lock()
			n.file = f
			n.w = bufio.NewWriterSize(f, maxLineSize)
			n.mu.Unlock()
		}
	}
}

func fcreate(tag string, now time.Time) (*os.File, error) {
	name := logfname(tag, now)
	return os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func logfname(tag string, t time.Time) string {
	return fmt.Sprintf("%s.%s.%02d%02d-%02d%02d%02d.%d.log",
		sname(), tag, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), os.Getpid())
}

func sname() string {
	if roleTag != "" {
		return roleTag
	}
	return "plasmasyncd"
}

func Flush(exit ...bool) {
	ex := len(exit) > 0 && exit[0]
	for _, sev := range []severity{sevInfo, sevErr} {
		n := nlogs[sev]
		n.mu.Lock()
		n.flushLocked()
		if ex && n.file != nil {
			_ = n.file.Sync()
			_ = n.file.Close()
		}
		n.mu.Unlock()
	}
}

func Since() time.Duration {
	now := mono.NanoTime()
	a := time.Duration(now - nlogs[sevInfo].last)
	b := time.Duration(now - nlogs[sevErr].last)
	if a > b {
		return a
	}
	return b
}

// format1 renders one log line: "I 15:04:05.000000 file.go:42 message\n"
func format1(sev severity, depth int, format string, args ...any) string {
	var sb strings.Builder
	sb.WriteByte(sevChar[sev])
	sb.WriteByte(' ')
	sb.WriteString(time.Now().Format("15:04:05.000000"))
	sb.WriteByte(' ')
	if _, fn, ln, ok := runtime.Caller(depth + 2); ok {
		if idx := strings.LastIndexByte(fn, filepath.Separator); idx >= 0 {
			fn = fn[idx+1:]
		}
		sb.WriteString(fn)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(ln))
		sb.WriteByte(' ')
	}
	if format == "" {
		fmt.Fprintln(&sb, args...)
	} else {
		fmt.Fprintf(&sb, format, args...)
		sb.WriteByte('\n')
	}
	return sb.String()
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
