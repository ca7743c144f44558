package logger

import (
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"pin":             {},
	"transactionpin":  {},
	"transaction_pin": {},
	"idnumber":        {},
	"id_number":       {},
	"channelkey":      {},
	"channel_key":     {},
}

var (
	once sync.Once
	base *zap.SugaredLogger
)

func instance() *zap.SugaredLogger {
	once.Do(func() {
		logger, err := zap.NewProduction(zap.AddCallerSkip(1))
		if err != nil {
			logger = zap.NewNop()
		}
		base = logger.Sugar()
	})
	return base
}

func Info(message string, fields Fields) {
	instance().Infow(message, "fields", sanitizeFields(fields))
}

func Error(message string, err error, fields Fields) {
	combined := Fields{}
	for k, v := range fields {
		combined[k] = v
	}
	if err != nil {
		combined["error"] = err.Error()
	}

	instance().Errorw(message, "fields", sanitizeFields(combined))
}

// SanitizePayload renders a payload loggable with sensitive keys masked.
func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func sanitizeFields(fields Fields) any {
	if fields == nil {
		fields = Fields{}
	}
	return SanitizePayload(fields)
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
