package logging

import "github.com/rs/zerolog"

// DispatcherLogger writes dispatcher key/value logs through zerolog.
type DispatcherLogger struct {
	zl zerolog.Logger
}

func NewDispatcherLogger(zl zerolog.Logger) *DispatcherLogger {
	return &DispatcherLogger{zl: zl}
}

func (l *DispatcherLogger) Debug(msg string, kv ...any) {
	l.zl.Debug().Fields(toFields(kv)).Msg(msg)
}

func (l *DispatcherLogger) Error(msg string, kv ...any) {
	l.zl.Error().Fields(toFields(kv)).Msg(msg)
}

// toFields pairs up kv. Pairs with a non-string key are skipped, as is an
// odd trailing element.
func toFields(kv []any) map[string]any {
	fields := make(map[string]any, len(kv)/2)
	for i := 1; i < len(kv); i += 2 {
		if k, ok := kv[i-1].(string); ok {
			fields[k] = kv[i]
		}
	}
	return fields
}
