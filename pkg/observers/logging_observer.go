// Package observers provides observers for monitoring automaton events
package observers

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/anggasct/stagefsm"
)

// LogLevel represents the logging level
type LogLevel int

const (
	// LogError logs only errors
	LogError LogLevel = iota
	// LogWarning logs errors and warnings
	LogWarning
	// LogInfo logs errors, warnings, and info
	LogInfo
	// LogDebug logs errors, warnings, info, and debug
	LogDebug
)

// LogFormatter formats log messages
type LogFormatter func(level LogLevel, format string, args ...interface{}) string

// DefaultLogFormatter provides default log formatting
func DefaultLogFormatter(level LogLevel, format string, args ...interface{}) string {
	levelStr := "INFO"
	switch level {
	case LogError:
		levelStr = "ERROR"
	case LogWarning:
		levelStr = "WARN"
	case LogInfo:
		levelStr = "INFO"
	case LogDebug:
		levelStr = "DEBUG"
	}

	return fmt.Sprintf("[%s] %s", levelStr, fmt.Sprintf(format, args...))
}

// LoggingObserver logs automaton events
type LoggingObserver[ID comparable] struct {
	level     LogLevel
	prefix    string
	mutex     sync.RWMutex
	formatter LogFormatter
	out       io.Writer
}

// NewLoggingObserver creates a new logging observer writing to stdout
func NewLoggingObserver[ID comparable](level LogLevel, prefix string) *LoggingObserver[ID] {
	return &LoggingObserver[ID]{
		level:     level,
		prefix:    prefix,
		formatter: DefaultLogFormatter,
		out:       os.Stdout,
	}
}

// SetFormatter sets the log formatter
func (o *LoggingObserver[ID]) SetFormatter(formatter LogFormatter) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.formatter = formatter
}

// SetOutput sets the destination of log lines
func (o *LoggingObserver[ID]) SetOutput(out io.Writer) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.out = out
}

// SetLevel changes the logging level
func (o *LoggingObserver[ID]) SetLevel(level LogLevel) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.level = level
}

// log logs a message at the specified level
func (o *LoggingObserver[ID]) log(level LogLevel, format string, args ...interface{}) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	if level > o.level || o.out == nil {
		return
	}

	prefix := ""
	if o.prefix != "" {
		prefix = fmt.Sprintf("[%s] ", o.prefix)
	}

	message := ""
	if o.formatter != nil {
		message = o.formatter(level, format, args...)
	} else {
		message = fmt.Sprintf(format, args...)
	}

	fmt.Fprintf(o.out, "%s%s\n", prefix, message)
}

// OnStatePop logs a popped state
func (o *LoggingObserver[ID]) OnStatePop(state stagefsm.State[ID]) {
	o.log(LogDebug, "Popped state: %v", state.ID())
}

// OnStatePush logs a pushed state
func (o *LoggingObserver[ID]) OnStatePush(state stagefsm.State[ID]) {
	o.log(LogDebug, "Pushed state: %v", state.ID())
}

// OnStateTransition logs transitions
func (o *LoggingObserver[ID]) OnStateTransition(popped bool, previous stagefsm.State[ID]) {
	if !popped {
		o.log(LogInfo, "Transition: previous state kept on stack")
		return
	}
	o.log(LogInfo, "Transition: left %v", previous.ID())
}

// OnStackEmpty logs an empty stack
func (o *LoggingObserver[ID]) OnStackEmpty() {
	o.log(LogWarning, "State stack is empty")
}

// OnHijack logs hijacked transitions
func (o *LoggingObserver[ID]) OnHijack(proposed, resolved stagefsm.Target[ID]) {
	o.log(LogInfo, "Transition hijacked: %s -> %s", proposed, resolved)
}

// OnError logs errors
func (o *LoggingObserver[ID]) OnError(err error) {
	o.log(LogError, "Error: %v", err)
}
