// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trip-estimator/internal/auto"
	"github.com/pdiddy/trip-estimator/internal/estimate"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest an aircraft for a passenger count and distance",
	Long: `Suggest recommends an aircraft type for a trip. Give the distance in
nautical miles with --distance, or a route with --from and --to.`,
	Example: `  trip-estimator suggest --passengers 4 --distance 450
  trip-estimator suggest --passengers 6 --from SBPA --to SBBR`,
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	pax, _ := f.GetInt("passengers")
	distance, _ := f.GetFloat64("distance")
	from, _ := f.GetString("from")
	to, _ := f.GetString("to")

	if from != "" || to != "" {
		if from == "" || to == "" {
			return fmt.Errorf("--from and --to must be given together")
		}
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		origin, err := a.engine.Airport(ctx, from)
		if err != nil {
			return err
		}
		dest, err := a.engine.Airport(ctx, to)
		if err != nil {
			return err
		}
		distance = estimate.Distance(origin.Latitude, origin.Longitude, dest.Latitude, dest.Longitude)
	} else if !f.Changed("distance") {
		return fmt.Errorf("give --distance or --from and --to")
	}

	s := auto.SuggestAircraft(pax, distance)
	format, _ := f.GetString("output")
	if done, err := writeStructured(os.Stdout, format, s); done {
		return err
	}
	fmt.Printf("%s %s for %d passenger(s) over %.0f NM: %s\n", s.Manufacturer, s.Model, pax, distance, s.Reason)
	return nil
}

func init() {
	addOutputFlag(suggestCmd)

	f := suggestCmd.Flags()
	f.Int("passengers", 1, "number of passengers")
	f.Float64("distance", 0, "trip distance in nautical miles")
	f.String("from", "", "origin airport code")
	f.String("to", "", "destination airport code")

	rootCmd.AddCommand(suggestCmd)
}
