package system

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/telekom/ghlogin/pkg/hostaddress"
)

// NewLogger returns a console logger for the CLI. Verbose enables debug output;
// otherwise only warnings and errors are written. A nil writer means stderr.
func NewLogger(verbose bool, w io.Writer) *zap.SugaredLogger {
	if w == nil {
		w = os.Stderr
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// HostFields returns key/value pairs identifying a login target, suitable for
// SugaredLogger.With or Infow/Debugw calls.
func HostFields(host hostaddress.HostAddress, method string) []interface{} {
	if method == "" {
		return []interface{}{"host", host.Title()}
	}
	return []interface{}{"host", host.Title(), "method", method}
}
