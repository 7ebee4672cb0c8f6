// Package logger builds the application's zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a human-readable development logger when debug is set and a
// JSON production logger otherwise.
func New(debug bool) (l *zap.Logger, err error) {
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return l, nil
}
