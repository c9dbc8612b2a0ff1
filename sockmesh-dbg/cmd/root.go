// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sockmesh

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sockmesh/sockmesh/pkg/logging"
	"github.com/sockmesh/sockmesh/pkg/logging/logfields"
	"github.com/sockmesh/sockmesh/pkg/option"
)

var (
	cfgFile string

	log = logging.DefaultLogger.WithField(logfields.LogSubsys, "sockmesh-dbg")
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sockmesh-dbg",
	Short: "CLI for inspecting the sockmesh datapath",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sockmesh.yaml)")
	option.Config.Flags(flags)
	viper.BindPFlags(flags)
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
}

// initConfig reads in the config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".sockmesh")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("sockmesh")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	if viper.GetBool("debug") {
		logging.SetLogLevelToDebug()
	}
	if root := viper.GetString("bpf-root"); root != "" {
		option.Config.BPFMapRoot = root
	}
}
