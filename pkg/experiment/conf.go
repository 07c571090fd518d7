package experiment

import (
	"fmt"
	"os"

	"github.com/intelsdi-x/meshbw/pkg/conf"
	"github.com/intelsdi-x/meshbw/pkg/utils/errutil"
	"github.com/sirupsen/logrus"
)

// DumpConfigFlag name includes dash to exclude it from dumping.
var dumpConfigFlag = conf.NewBoolFlag("config-dump", "Dump configuration as environment script.", false)

// Configure parses flags and environment and sets log level.
// Note: exits if flags are invalid or configuration dump was requested.
func Configure() {
	err := conf.ParseFlags()
	errutil.CheckUsage(err)
	logrus.SetLevel(conf.LogLevel())

	if dumpConfigFlag.Value() {
		fmt.Println(conf.DumpConfig())
		os.Exit(0)
	}
}
