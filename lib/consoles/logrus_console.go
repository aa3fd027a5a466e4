package consoles

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oleiade/lane/v2"
	"github.com/sirupsen/logrus"
)

type logrusConsole struct {
	logger   *logrus.Logger
	prefixes *lane.Stack[string]
}

func NewStdOutConsole() Console {
	return NewConsole(os.Stdout, false)
}

func NewConsole(out io.Writer, verbose bool) Console {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return NewLogrusConsole(logger)
}

func NewLogrusConsole(logger *logrus.Logger) Console {
	return &logrusConsole{
		logger:   logger,
		prefixes: lane.NewStack[string](),
	}
}

func (o *logrusConsole) Printf(format string, a ...any) {
	o.entry().Info(strings.TrimRight(fmt.Sprintf(format, a...), "\n"))
}

func (o *logrusConsole) Debugf(format string, a ...any) {
	o.entry().Debug(strings.TrimRight(fmt.Sprintf(format, a...), "\n"))
}

func (o *logrusConsole) entry() *logrus.Entry {
	entry := logrus.NewEntry(o.logger)
	if prefix := o.prefix(); prefix != "" {
		entry = entry.WithField("step", prefix)
	}
	return entry
}

func (o *logrusConsole) PushPrefix(format string, a ...any) {
	o.prefixes.Push(strings.TrimSpace(strings.TrimSuffix(fmt.Sprintf(format, a...), ": ")))
}

func (o *logrusConsole) PopPrefix() {
	o.prefixes.Pop()
}

func (o *logrusConsole) prefix() string {
	head, ok := o.prefixes.Head()
	if !ok {
		return ""
	}
	return head
}
