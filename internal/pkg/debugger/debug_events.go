package debugger

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// sensitiveKeys are never written to the log, at any depth.
var sensitiveKeys = map[string]struct{}{
	"token":         {},
	"senha_usuario": {},
	"password":      {},
}

// DumpPayload logs a backend payload at debug level. JSON bodies are
// pretty-printed with credentials masked; anything else is logged raw.
// It does nothing unless debug logging is enabled.
func DumpPayload(logger *zap.Logger, msg string, payload []byte) {
	if logger == nil || !logger.Core().Enabled(zapcore.DebugLevel) || len(payload) == 0 {
		return
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		logger.Debug(msg, zap.ByteString("payload", payload), zap.NamedError("json_error", err))
		return
	}

	masked, err := json.Marshal(Redact(doc))
	if err != nil {
		logger.Debug(msg, zap.NamedError("json_error", err))
		return
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, masked, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(masked)
	}
	logger.Debug(msg, zap.String("payload", pretty.String()))
}

// Redact replaces the values of credential fields in a decoded JSON document.
func Redact(doc any) any {
	switch v := doc.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			if _, ok := sensitiveKeys[k]; ok {
				out[k] = redacted
				continue
			}
			out[k] = Redact(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = Redact(val)
		}
		return out
	default:
		return v
	}
}
