// Package autoload initializes the global logger from LOGGER_* environment
// variables. Blank-import it from main.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/wavelaunch/creator-backend/pkg/logger"
)

func init() {
	var conf logx.Config
	if err := envconfig.Process("LOGGER", &conf); err != nil {
		logx.Init()
		return
	}
	logx.Init(conf)
}
