// Package cmd provides the socketio-server CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coresio/socketio/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "socketio-server",
	Short: "Reference Socket.IO v0.7 wire-protocol server",
	Long: `socketio-server runs every transport this module implements
(xhr-polling, jsonp-polling, xhr-multipart, htmlfile, websocket) behind a
single HTTP listener.

Configuration is loaded from socketio.yaml in the current directory, or
the file passed via --config. Every key accepts a SOCKETIO_-prefixed
environment override, e.g. SOCKETIO_LISTEN_ADDR=:9000.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./socketio.yaml)")
}

func initConfig() {
	config.Init(cfgFile)
}
