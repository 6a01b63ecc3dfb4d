// Package logz constructs the structured logger used throughout
// barrelcask. It is a thin wrapper over zap, fixed to the sugared API
// so call sites can use Infow/Errorw/Warnw-style structured fields
// without carrying zap.Field construction around.
package logz

import "go.uber.org/zap"

// New builds a *zap.SugaredLogger. Production builds a JSON encoder
// suited to log aggregation; development builds a human-readable
// console encoder with debug-level output.
func New(production bool) (*zap.SugaredLogger, error) {
	if production {
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, err
		}
		return logger.Sugar(), nil
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Noop returns a logger that discards everything, for tests that don't
// care about log output.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
