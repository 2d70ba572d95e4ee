package autobind

// Logger defines the interface for engine logging. The engine uses
// structured logging with key-value pairs so host applications can route
// framework output through their own logging stack.
//
// The variadic arguments come in key-value pairs:
//
//	logger.Debug("built execution plan", "target", name, "members", n)
//
// This shape is compatible with slog, zap's sugared logger, logrus and
// similar structured loggers.
type Logger interface {
	// Info logs a normal engine event, such as a completed build.
	Info(msg string, args ...any)

	// Error logs a failure that the engine absorbed but that indicates
	// a broken declaration, such as a type mismatch.
	Error(msg string, args ...any)

	// Warn logs an unusual condition that does not break execution,
	// such as a component lookup miss.
	Warn(msg string, args ...any)

	// Debug logs detailed diagnostic information, such as per-member
	// execution traces.
	Debug(msg string, args ...any)
}
