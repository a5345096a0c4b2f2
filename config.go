package lunarvoyer

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _lvconfig{}
)

// _lvconfig is a "hidden" struct, just use `lvConfig`
type _lvconfig struct {
	outputDir string
	liveMoon  bool // refresh the Moon position from its ephemeris instead of the static mean distance
}

// lvConfig returns the engine configuration.
func lvConfig() _lvconfig {
	if cfgLoaded {
		return config
	}
	// Load the configuration file
	confPath := os.Getenv("LUNARVOYER_CONFIG")
	if confPath == "" {
		panic("environment variable `LUNARVOYER_CONFIG` is missing or empty")
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	outputDir := viper.GetString("general.output_path")
	liveMoon := viper.GetBool("ephemeris.live_moon")

	cfgLoaded = true
	config = _lvconfig{outputDir: outputDir, liveMoon: liveMoon}
	return config
}
