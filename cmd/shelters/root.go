package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ambiyansyah-risyal/shelterapi"
	"github.com/ambiyansyah-risyal/shelterapi/internal/log"
)

const (
	keyBaseURL   = "base-url"
	keyTimeout   = "timeout"
	keyLogLevel  = "log-level"
	keyCSRFToken = "csrf-token"
)

// errRequestFailed is returned after a failed envelope has been printed.
var errRequestFailed = errors.New("request failed")

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SHELTERS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "shelters",
		Short:         "Query the shelter-finder API",
		Version:       shelterapi.ReadBuildInfo().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.Configure(log.Config{
				Level:   v.GetString(keyLogLevel),
				Output:  cmd.ErrOrStderr(),
				Service: "shelters",
			})
		},
	}

	flags := root.PersistentFlags()
	flags.String(keyBaseURL, "http://localhost:8000", "API root URL (env SHELTERS_BASE_URL)")
	flags.Duration(keyTimeout, 30*time.Second, "request timeout")
	flags.String(keyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.String(keyCSRFToken, "", "CSRF token to send instead of reading it from the site")
	for _, key := range []string{keyBaseURL, keyTimeout, keyLogLevel, keyCSRFToken} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		newNearCmd(v),
		newShowCmd(v),
		newRecordCmd(v),
		newPlacesCmd(v),
		newTokenCmd(v),
	)
	return root
}

func newClient(v *viper.Viper, extra ...shelterapi.Option) (*shelterapi.Client, error) {
	options := []shelterapi.Option{
		shelterapi.WithTimeout(v.GetDuration(keyTimeout)),
		shelterapi.WithRequestIDs(),
		shelterapi.WithLogger(log.WithComponent("client")),
	}
	options = append(options, extra...)
	if token := v.GetString(keyCSRFToken); token != "" {
		options = append(options, shelterapi.WithCSRFToken(token))
	}

	client := shelterapi.New(v.GetString(keyBaseURL), options...)
	if !client.IsValid() {
		return nil, client.ValidationError()
	}
	return client, nil
}

// output is the printed form of an envelope. A nil errorMessage prints as
// null, the same way the server reports a failure without a message.
type output struct {
	Success      bool    `json:"success"`
	Payload      any     `json:"payload"`
	Error        string  `json:"error,omitempty"`
	ErrorMessage *string `json:"errorMessage"`
}

func printEnvelope[T any](cmd *cobra.Command, env *shelterapi.Envelope[T]) error {
	out := output{Success: env.Success}
	if env.Success {
		out.Payload = env.Payload
	}
	if env.Error != nil {
		out.Error = env.Error.Error()
	}
	if env.ErrorMessage != "" {
		msg := env.ErrorMessage
		out.ErrorMessage = &msg
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if !env.Success {
		return errRequestFailed
	}
	return nil
}
