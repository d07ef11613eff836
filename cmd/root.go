package cmd

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zapleads/zapleads/config"
)

var rootCmd = &cobra.Command{
	Use:   "zapleads",
	Short: "Lead-generation and outbound-messaging engine",
	Long: "Searches a maps provider for businesses, validates their numbers against " +
		"a messaging provider and dispatches templated campaign messages at randomized intervals.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		initConfig()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("port", config.AppPort, "HTTP port")
	pf.Bool("debug", config.AppDebug, "enable debug logging")
	pf.String("db-uri", config.DBURI, "database URI (postgres:// or sqlite file path)")
	pf.String("maps-base-url", config.MapsBaseURL, "maps provider base URL")
	pf.String("maps-api-key", config.MapsAPIKey, "maps provider API key")
	pf.String("messaging-base-url", config.MessagingBaseURL, "messaging provider base URL")
	pf.String("messaging-api-key", config.MessagingAPIKey, "messaging provider API key")
	pf.Duration("gateway-timeout", config.GatewayTimeout, "timeout for provider HTTP calls")
	pf.Duration("poll-interval", config.WorkerPollInterval, "campaign worker poll period")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(pf)
}

func initConfig() {
	config.AppPort = viper.GetString("port")
	config.AppDebug = viper.GetBool("debug")
	config.DBURI = viper.GetString("db-uri")
	config.MapsBaseURL = viper.GetString("maps-base-url")
	config.MapsAPIKey = viper.GetString("maps-api-key")
	config.MessagingBaseURL = viper.GetString("messaging-base-url")
	config.MessagingAPIKey = viper.GetString("messaging-api-key")
	config.GatewayTimeout = viper.GetDuration("gateway-timeout")
	config.WorkerPollInterval = viper.GetDuration("poll-interval")

	if config.AppDebug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
