package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"code.cloudfoundry.org/taskgraph/util"
)

var (
	cfgFile string
	version string
	logger  = logrus.New()

	flagVerbosity int
)

// verbosityToLevel maps the util.Verbosity scale onto logrus levels. Values
// outside the known range fall back to the default level.
func verbosityToLevel(v int) logrus.Level {
	switch v {
	case util.VerbosityQuiet:
		return logrus.ErrorLevel
	case util.VerbosityVerbose:
		return logrus.DebugLevel
	case util.VerbosityDebug:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

// RootCmd is the base command invoked when taskgraph is run without a
// subcommand.
var RootCmd = &cobra.Command{
	Use:   "taskgraph",
	Short: "Serializes a deployment task catalog into a per-node execution graph",
	Long: `
taskgraph drives a cluster topology and a catalog of deployment tasks
through role resolution, chain expansion, group expansion, and dependency
materialization, producing a per-node ordered list of executable task
records for a deployment executor to consume.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flagVerbosity = viper.GetInt("verbosity")
		logger.SetLevel(verbosityToLevel(flagVerbosity))
		return nil
	},
}

// Execute runs the root command. It is called once from main.main.
func Execute(v string) error {
	version = v
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.taskgraph.yaml)")
	RootCmd.PersistentFlags().IntP(
		"verbosity", "V", util.VerbosityDefault,
		"Logging verbosity: 0=quiet, 1=default, 2=verbose, 3=debug.",
	)

	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		logger.WithError(err).Fatal("failed to bind persistent flags")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	initViper(viper.GetViper())
}

func initViper(v *viper.Viper) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	v.SetEnvPrefix("TASKGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetConfigName(".taskgraph")
	v.AddConfigPath("$HOME")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		if v == viper.GetViper() {
			fmt.Fprintln(logger.Out, "using config file:", viper.ConfigFileUsed())
		}
	}
}

func absolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("getting absolute path for %s: %w", path, err)
	}
	return abs, nil
}
