package logger

import "go.uber.org/zap"

// New builds the process logger on stdout. Production JSON unless env is
// "development".
func New(env string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if env == "development" {
		config = zap.NewDevelopmentConfig()
	}
	config.OutputPaths = []string{"stdout"}
	return config.Build(zap.Fields(zap.String("env", env)))
}
