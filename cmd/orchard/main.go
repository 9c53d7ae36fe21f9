package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootCmdConfig struct {
	configFile string
	v          *viper.Viper
	logger     *logrus.Logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{v: viper.New(), logger: logrus.New()}
	rootCmd := &cobra.Command{
		Use:   "orchard",
		Short: "orchard is a tool to mine association rules",
		Long:  `A tool to mine "if antecedent then consequent" rules from categorical data, growing entropy-guided trees or counting frequent itemsets`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.load(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a YAML config file with default values for flags")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.AddCommand(versionCmd(), mineCmd(config), datasetCmd(config), treeCmd(config))
	return rootCmd
}

/*
load layers the configuration of the command: flags set on the command line
win over ORCHARD_* environment variables, which win over the config file,
which wins over flag defaults. It then sets up the logger.
*/
func (rc *rootCmdConfig) load(cmd *cobra.Command) error {
	v := rc.v
	v.SetEnvPrefix("ORCHARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if rc.configFile != "" {
		v.SetConfigFile(rc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", rc.configFile, err)
		}
	}
	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	rc.logger.SetLevel(level)
	rc.logger.SetOutput(os.Stderr)
	switch v.GetString("log-format") {
	case "json":
		rc.logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		rc.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", v.GetString("log-format"))
	}
	return nil
}

// fail logs the error and exits with the given code.
func (rc *rootCmdConfig) fail(code int, err error, msg string) {
	rc.logger.WithError(err).Error(msg)
	os.Exit(code)
}
