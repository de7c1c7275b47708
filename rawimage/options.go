package rawimage

import "github.com/weaming/rawdng-go/logx"

type options struct {
	cropToActive bool
	logger       *logx.Logger
}

// Option configures Decode.
type Option func(*options)

// WithCropToActiveArea stores only the active rectangle instead of the full
// sensor readout with its masked borders.
func WithCropToActiveArea() Option {
	return func(o *options) { o.cropToActive = true }
}

// WithLogger reports each pass and every warning on l.
func WithLogger(l *logx.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logx.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
