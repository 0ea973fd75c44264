package core

// Logger is any service that can report application events.
// args may contain an error, a map[string]interface{} of extra context
// or any value the implementation knows how to render.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
