// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate time, fuel and cost for a trip",
	Long: `Estimate computes a full flight estimate between two airports for an
aircraft type: distance and course, a taxi/climb/cruise/descent phase table,
fuel with a 45-minute reserve, costs, derived rates, and a confidence level
with uncertainty intervals.

Airports are looked up by ICAO, IATA, GPS or local code. Aircraft specs are
resolved through the cache and the resolver pipeline.`,
	Example: `  trip-estimator estimate --from SBSP --to SBRJ --manufacturer Cessna --model 172
  trip-estimator estimate --from GRU --to BSB --manufacturer Pilatus --model PC-12 --profile fast -o json`,
	RunE: runEstimate,
}

func runEstimate(cmd *cobra.Command, args []string) error {
	req, err := estimateRequestFromFlags(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.engine.Estimate(context.Background(), req)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	return printEstimate(os.Stdout, format, res)
}

func estimateRequestFromFlags(cmd *cobra.Command) (types.FlightEstimateRequest, error) {
	f := cmd.Flags()
	req := types.FlightEstimateRequest{Aircraft: aircraftKeyFromFlags(cmd)}
	req.Origin, _ = f.GetString("from")
	req.Destination, _ = f.GetString("to")
	profile, _ := f.GetString("profile")
	req.Profile = types.ParseProfile(profile)

	if f.Changed("altitude") {
		v, _ := f.GetFloat64("altitude")
		req.Altitude = &v
	}
	if f.Changed("date") {
		s, _ := f.GetString("date")
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return req, fmt.Errorf("parsing --date: %w", err)
		}
		req.Date = &d
	}
	if f.Changed("passengers") {
		v, _ := f.GetInt("passengers")
		req.Passengers = &v
	}
	if f.Changed("baggage") {
		v, _ := f.GetFloat64("baggage")
		req.Baggage = &v
	}
	if f.Changed("initial-fuel") {
		v, _ := f.GetFloat64("initial-fuel")
		req.InitialFuel = &v
	}
	if f.Changed("taxi-time") {
		v, _ := f.GetFloat64("taxi-time")
		req.TaxiTime = &v
	}
	if f.Changed("fuel-price") {
		v, _ := f.GetFloat64("fuel-price")
		req.FuelPriceOverride = &v
	}
	return req, nil
}

func addAircraftFlags(cmd *cobra.Command) {
	cmd.Flags().String("manufacturer", "", "aircraft manufacturer (required)")
	cmd.Flags().String("model", "", "aircraft model (required)")
	cmd.Flags().String("variant", "", "aircraft variant")
	cmd.Flags().Int("year", 0, "aircraft model year")
	cmd.MarkFlagRequired("manufacturer")
	cmd.MarkFlagRequired("model")
}

func aircraftKeyFromFlags(cmd *cobra.Command) types.AircraftKey {
	var k types.AircraftKey
	k.Manufacturer, _ = cmd.Flags().GetString("manufacturer")
	k.Model, _ = cmd.Flags().GetString("model")
	k.Variant, _ = cmd.Flags().GetString("variant")
	k.Year, _ = cmd.Flags().GetInt("year")
	return k
}

func addRouteFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "origin airport code (required)")
	cmd.Flags().String("to", "", "destination airport code (required)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
}

func init() {
	addRouteFlags(estimateCmd)
	addAircraftFlags(estimateCmd)
	addWindFlags(estimateCmd)
	addOutputFlag(estimateCmd)

	f := estimateCmd.Flags()
	f.String("profile", string(types.ProfileNormal), "cruise profile: economic, normal, fast")
	f.Float64("altitude", 0, "cruise altitude in feet (default: typical cruise altitude, else 10000)")
	f.String("date", "", "flight date, YYYY-MM-DD (default: today)")
	f.Int("passengers", 0, "number of passengers")
	f.Float64("baggage", 0, "baggage in kg")
	f.Float64("initial-fuel", 0, "fuel on board at departure, liters")
	f.Float64("taxi-time", 0, "taxi time in minutes (default: 10)")
	f.Float64("fuel-price", 0, "fuel price per liter (default: origin price, else configured default)")

	rootCmd.AddCommand(estimateCmd)
}
