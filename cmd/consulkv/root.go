package main

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/readysettech/consulkv"
)

var rootCmd = &cobra.Command{
	Use:   "consulkv",
	Short: "command-line client for the Consul key-value store",
	Long: `consulkv reads, writes, deletes and lists keys in a Consul KV store.

The agent address and token are taken from the flags below or from the
CONSULKV_ADDR and CONSULKV_TOKEN environment variables.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("addr", "", "address of the agent (default http://127.0.0.1:8500)")
	flags.String("token", "", "ACL token to authenticate with")
	flags.String("datacenter", "", "datacenter to query")
	flags.String("namespace", "", "namespace to query")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.BoolP("verbose", "v", false, "log every request at debug level")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(delCmd)
	rootCmd.AddCommand(keysCmd)
}

// initConfig wires environment variables into the flag set.
func initConfig() {
	viper.SetEnvPrefix("consulkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		logrus.WithError(err).Fatal("failed to bind flags")
	}
}

// newClient builds a library client from the resolved configuration.
func newClient() (*consulkv.Client, error) {
	logger := logrus.New()
	if viper.GetBool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}

	opts := []consulkv.Option{
		consulkv.WithTimeout(viper.GetDuration("timeout")),
		consulkv.WithLogger(logger),
	}

	if addr := viper.GetString("addr"); addr != "" {
		opts = append(opts, consulkv.WithAddress(addr))
	}

	if token := viper.GetString("token"); token != "" {
		opts = append(opts, consulkv.WithToken(token))
	}

	if dc := viper.GetString("datacenter"); dc != "" {
		opts = append(opts, consulkv.WithDatacenter(dc))
	}

	if ns := viper.GetString("namespace"); ns != "" {
		opts = append(opts, consulkv.WithNamespace(ns))
	}

	return consulkv.New(opts...)
}
