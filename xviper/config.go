package xviper

import (
	"github.com/go-kit/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/observe/coroutine"
	"github.com/xmidt-org/observe/logging"
	"github.com/xmidt-org/observe/observed"
	"github.com/xmidt-org/observe/xmetrics"
)

const (
	LogKey        = logging.LoggingKey
	DispatcherKey = "dispatcher"
	ObservedKey   = "observed"
	MetricsKey    = "metrics"
)

// Config is the complete configuration of an observing application
type Config struct {
	Log        logging.Options   `json:"log"`
	Dispatcher coroutine.Options `json:"dispatcher"`
	Observed   observed.Options  `json:"observed"`
	Metrics    xmetrics.Options  `json:"metrics"`
}

// Load decodes a Config from v.  A nil Viper yields the zero Config, which means defaults everywhere.
func Load(v *viper.Viper) (*Config, error) {
	c := new(Config)
	if v != nil {
		if err := v.Unmarshal(c, DecoderOptions()...); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewLogger builds the application logger from the configuration under LogKey,
// decoded the same way Load decodes it.
func NewLogger(v *viper.Viper) (log.Logger, error) {
	logger, _, err := logging.NewFromViper(v, DecoderOptions()...)
	return logger, err
}

// Flags adds the standard command line flags to fs.  Binding fs to a Viper, e.g. through
// StdOptions, lets these flags override the configuration file.
func Flags(fs *pflag.FlagSet) {
	fs.StringP(DefaultFileFlag, "f", "", "the fully-qualified configuration file")
	fs.StringP(DefaultNameFlag, "n", "", "the configuration name, searched for in the standard paths")
	fs.String(LogKey+".level", "", "the log level: ERROR, WARN, INFO, or DEBUG")
	fs.Int(DispatcherKey+".workers", 0, "the number of dispatcher workers")
	fs.Duration(DispatcherKey+".shutdownTimeout", 0, "how long to wait for dispatcher workers to exit")
	fs.String(ObservedKey+".ownership", "", "create or join observations for nested calls")
}
