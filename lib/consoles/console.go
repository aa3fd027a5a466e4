package consoles

// Console reports progress to the user. Prefixes name the current step and nest.
type Console interface {
	Printf(format string, a ...any)
	// Debugf is only shown by verbose consoles.
	Debugf(format string, a ...any)

	PushPrefix(format string, a ...any)
	PopPrefix()
}
