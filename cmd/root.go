package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foomo/recorddescription-mcp/config"
	"github.com/foomo/recorddescription-mcp/solr"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "recorddescription-mcp",
		Short: "Describe MARC21 catalog records over MCP",
		Long: `recorddescription-mcp turns MARC21 catalog records into ordered, typed
descriptions. Records come from a VuFind Solr index, inline MARC data or a
catalog staff view page.

Available subcommands:
  serve    - Run the MCP server over stdio or HTTP
  describe - Describe a single record and print the JSON`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides config and RECORDDESCRIPTION_LOG_LEVEL)")

	root.AddCommand(newServeCmd(opts), newDescribeCmd(opts))
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newSolrClient(cfg *config.Config) (*solr.Client, *http.Client) {
	httpClient := &http.Client{Timeout: cfg.Solr.Timeout}
	return solr.NewClient(cfg.Solr.Settings, httpClient), httpClient
}
