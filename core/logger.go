package core

// Logger is any service that can log messages.
// expected args: error, map[string]interface{} (extra data) or domain values the implementation knows about.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
