package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ambiyansyah-risyal/shelterapi"
)

func newNearCmd(v *viper.Viper) *cobra.Command {
	var (
		query              shelterapi.PointQuery
		offset, limit, rng int
	)

	cmd := &cobra.Command{
		Use:   "near",
		Short: "List shelters around a point, nearest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("offset") {
				query.Offset = &offset
			}
			if flags.Changed("limit") {
				query.Limit = &limit
			}
			if flags.Changed("range") {
				if rng <= 0 || rng > shelterapi.MaxRange {
					return fmt.Errorf("--range must be between 1 and %d meters", shelterapi.MaxRange)
				}
				query.Range = &rng
			}

			client, err := newClient(v)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, client.SheltersForPoint(cmd.Context(), query))
		},
	}

	cmd.Flags().Float64Var(&query.Longitude, "lon", 0, "longitude (WGS84)")
	cmd.Flags().Float64Var(&query.Latitude, "lat", 0, "latitude (WGS84)")
	cmd.Flags().IntVar(&offset, "offset", shelterapi.DefaultOffset, "number of shelters to skip")
	cmd.Flags().IntVar(&limit, "limit", shelterapi.DefaultLimit, "maximum number of shelters")
	cmd.Flags().IntVar(&rng, "range", shelterapi.DefaultRange, "search radius in meters")
	_ = cmd.MarkFlagRequired("lon")
	_ = cmd.MarkFlagRequired("lat")
	return cmd
}

func newShowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a shelter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(v)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, client.ShelterDetails(cmd.Context(), id))
		},
	}
}

func newRecordCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "record ID",
		Short: "Show capacity and occupancy of a shelter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(v)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, client.ShelterRecord(cmd.Context(), id))
		},
	}
}

func newPlacesCmd(v *viper.Viper) *cobra.Command {
	places := &cobra.Command{
		Use:   "places",
		Short: "Look up places to search shelters around",
	}

	places.AddCommand(
		&cobra.Command{
			Use:   "search QUERY",
			Short: "Autocomplete a place name",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := newClient(v)
				if err != nil {
					return err
				}
				return printEnvelope(cmd, client.SearchPlaces(cmd.Context(), strings.Join(args, " ")))
			},
		},
		&cobra.Command{
			Use:   "show PLACE_ID",
			Short: "Show the details of a place",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := newClient(v)
				if err != nil {
					return err
				}
				return printEnvelope(cmd, client.PlaceDetails(cmd.Context(), args[0]))
			},
		},
	)
	return places
}

func newTokenCmd(v *viper.Viper) *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print the CSRF token of a fresh session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(v, shelterapi.WithCSRFPage(page))
			if err != nil {
				return err
			}
			token, err := client.CSRF().Get(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&page, "page", shelterapi.DefaultCSRFPage, "page carrying the csrfmiddlewaretoken field")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid shelter id %q", arg)
	}
	return id, nil
}
