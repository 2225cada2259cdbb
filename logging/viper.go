package logging

import (
	"github.com/go-kit/log"
	"github.com/spf13/viper"
)

// LoggingKey is the configuration key under which logging Options live
const LoggingKey = "log"

// FromViper decodes the Options stored under LoggingKey.  The whole tree is decoded,
// rather than v.Sub(LoggingKey), so that flags bound to nested keys like log.level
// still apply.  A nil Viper, or one with nothing under LoggingKey, yields the zero Options.
func FromViper(v *viper.Viper, o ...viper.DecoderConfigOption) (*Options, error) {
	var config struct {
		Log Options `json:"log" mapstructure:"log"`
	}

	if v != nil {
		if err := v.Unmarshal(&config, o...); err != nil {
			return nil, err
		}
	}

	return &config.Log, nil
}

// NewFromViper builds a logger from the Options under LoggingKey
func NewFromViper(v *viper.Viper, o ...viper.DecoderConfigOption) (log.Logger, *Options, error) {
	options, err := FromViper(v, o...)
	if err != nil {
		return nil, nil, err
	}

	return New(options), options, nil
}
