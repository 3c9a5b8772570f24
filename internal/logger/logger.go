package logger

import "go.uber.org/zap"

// New builds a development logger for local work and a JSON production logger otherwise.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	return zap.NewProduction()
}
