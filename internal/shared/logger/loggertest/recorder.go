// Package loggertest provides a Logger that records warnings and errors for assertions.
package loggertest

import (
	"context"
	"fmt"
	"sync"

	"aura-backend/internal/shared/logger"
)

// Recorder keeps every Warn and Error line. Debug and Info are dropped.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Lines returns the recorded messages in order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *Recorder) add(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, msg)
}

func (r *Recorder) Debug(args ...interface{}) {}
func (r *Recorder) Info(args ...interface{})  {}
func (r *Recorder) Warn(args ...interface{})  { r.add(fmt.Sprint(args...)) }
func (r *Recorder) Error(args ...interface{}) { r.add(fmt.Sprint(args...)) }
func (r *Recorder) Fatal(args ...interface{}) { r.add(fmt.Sprint(args...)) }

func (r *Recorder) Debugf(format string, args ...interface{}) {}
func (r *Recorder) Infof(format string, args ...interface{})  {}
func (r *Recorder) Warnf(format string, args ...interface{})  { r.add(fmt.Sprintf(format, args...)) }
func (r *Recorder) Errorf(format string, args ...interface{}) { r.add(fmt.Sprintf(format, args...)) }
func (r *Recorder) Fatalf(format string, args ...interface{}) { r.add(fmt.Sprintf(format, args...)) }

// Derived loggers are the Recorder itself.
func (r *Recorder) WithFields(map[string]interface{}) logger.Logger { return r }
func (r *Recorder) WithContext(context.Context) logger.Logger      { return r }
func (r *Recorder) WithComponent(string) logger.Logger             { return r }

var _ logger.Logger = (*Recorder)(nil)
