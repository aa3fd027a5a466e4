package utils

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBarTo creates a bar writing to out. A nil writer uses stderr.
func NewProgressBarTo(out io.Writer, total int) *progressbar.ProgressBar {
	options := []progressbar.Option{
		progressbar.OptionThrottle(time.Second),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "#", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	}
	if out != nil {
		options = append(options, progressbar.OptionSetWriter(out))
	}

	return progressbar.NewOptions(total, options...)
}
