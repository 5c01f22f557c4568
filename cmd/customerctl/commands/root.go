package commands

import (
	"time"

	"github.com/samvad-hq/samvad-customers/internal/config"
	"github.com/samvad-hq/samvad-customers/pkg/customers"
	"github.com/samvad-hq/samvad-customers/pkg/httpclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"

	keyOutput = "output"
)

// NewRootCommand builds the customerctl command tree. v supplies defaults and
// environment bindings; persistent flags are layered on top of it.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	if v == nil {
		v = config.NewViper()
	}

	root := &cobra.Command{
		Use:   "customerctl",
		Short: "Customer API command-line client",
		Long: `A command-line client for the customer REST API.

The API base URL is read from API_BASEURL (or configs/.env) unless
--api-baseurl is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("api-baseurl", "", "API base URL (overrides API_BASEURL)")
	root.PersistentFlags().StringP("output", "o", OutputFormatTable, "output format (table, json, yaml)")
	root.PersistentFlags().Int64("timeout", 0, "request timeout in seconds (default from REQUEST_TIMEOUT_SECONDS)")

	_ = v.BindPFlag(config.KeyAPIBaseURL, root.PersistentFlags().Lookup("api-baseurl"))
	_ = v.BindPFlag(keyOutput, root.PersistentFlags().Lookup("output"))
	_ = v.BindPFlag("request_timeout_seconds", root.PersistentFlags().Lookup("timeout"))

	root.AddCommand(
		newListCommand(v),
		newGetCommand(v),
		newSaveCommand(v),
		newUpdateCommand(v),
		newDeleteCommand(v),
	)
	return root
}

// newClient builds a customer client whose base URL is resolved from v on every request.
func newClient(v *viper.Viper) *customers.Client {
	timeout := time.Duration(v.GetInt64("request_timeout_seconds")) * time.Second
	return customers.New(httpclient.NewRestyClient(timeout), config.BaseURLFromEnv(v))
}
