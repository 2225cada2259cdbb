package xviper

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DecoderOptions are the viper decoding options used throughout this module.  Struct
// fields are matched by their json tags, durations may be written as strings like "5s",
// and comma-separated strings decode into slices.
func DecoderOptions() []viper.DecoderConfigOption {
	return []viper.DecoderConfigOption{
		func(dc *mapstructure.DecoderConfig) {
			dc.TagName = "json"
			dc.WeaklyTypedInput = true
			dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			)
		},
	}
}

// UnmarshalKey decodes the given subkey into target.  A missing key leaves target untouched.
func UnmarshalKey(v *viper.Viper, key string, target interface{}) error {
	if v == nil || !v.IsSet(key) {
		return nil
	}

	return v.UnmarshalKey(key, target, DecoderOptions()...)
}

type defaulter interface {
	SetDefault(string, interface{})
}

// Defaults maps configuration keys onto default values
type Defaults map[string]interface{}

func ApplyDefaults(d defaulter, v Defaults) {
	for key, value := range v {
		d.SetDefault(key, value)
	}
}
