package opts

import (
	"github.com/walteh/cardimport/pkg/config"
	"github.com/walteh/cardimport/pkg/log"
)

// RootOpts contains shared options used by all commands. Config and
// UserLogger are filled in before any subcommand runs.
type RootOpts struct {
	ConfigFile string
	WorkDir    string
	Debug      bool

	Config     *config.Config
	UserLogger *log.UserLogger
}
