package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
	"github.com/naka-gawa/github-lifecycle/internal/gateway"
)

const envPrefix = "LIFECYCLE"

var errMissingToken = errors.New("a GitHub token is required: pass --token or set GITHUB_TOKEN")

// newConfig binds the command's flags to a fresh viper instance. Values are looked
// up in flags, then LIFECYCLE_* environment variables, then the --config file.
func newConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("token", "GITHUB_TOKEN", envPrefix+"_TOKEN"); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return v, nil
}

// newLogger discards all logs unless verbose is set.
func newLogger(verbose bool) *log.Logger {
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// apiOptions holds the settings shared by the commands that call GitHub.
type apiOptions struct {
	Token      string
	APIURL     string
	GraphQLURL string
}

func loadAPIOptions(v *viper.Viper) (apiOptions, error) {
	opts := apiOptions{
		Token:      v.GetString("token"),
		APIURL:     v.GetString("api-url"),
		GraphQLURL: v.GetString("graphql-url"),
	}
	if opts.Token == "" {
		return apiOptions{}, errMissingToken
	}
	return opts, nil
}

func (o apiOptions) newGateway(logger *log.Logger) (*gateway.GitHubGateway, error) {
	gw, err := gateway.NewGitHubGateway(o.Token, logger, gateway.WithEnterpriseURLs(o.APIURL, o.GraphQLURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return gw, nil
}

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatYAML:
		return nil
	}
	return &domain.ValidationError{Field: "format", Reason: fmt.Sprintf("unknown format %q", format)}
}
