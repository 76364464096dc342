package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs verbose diagnostics. It is discarded unless verbose output is enabled.
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
