// Package logging provides structured logging on top of uber/zap.
//
// Two encodings are supported:
//   - JSON for production, one object per line
//   - Colored console output for development
//
// Components receive a *Logger through their constructors and log with
// structured fields:
//
//	log := logging.NewDefault()
//	log.Info("paste finished", zap.String("destination", dst.String()), zap.Int("items", n))
//	log.Warn("delete failed", zap.String("path", p.String()), zap.Error(err))
//
// Tests use NewNop, or NewObserved to assert on emitted entries.
package logging
