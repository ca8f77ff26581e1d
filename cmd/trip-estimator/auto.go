// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trip-estimator/internal/auto"
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Estimate a trip with altitude, profile and fuel price inferred",
	Long: `Auto needs only the route, the passenger count and the aircraft. It
infers the cruise altitude and profile from the distance, allows 15 kg of
baggage per passenger and 10 minutes of taxi, and takes the fuel price from
the origin airport when one is published.`,
	Example: `  trip-estimator auto --from SBSP --to SBRJ --passengers 2 --manufacturer Cessna --model 172`,
	RunE:    runAuto,
}

func runAuto(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	f := cmd.Flags()
	var p auto.Params
	p.Origin, _ = f.GetString("from")
	p.Destination, _ = f.GetString("to")
	p.Passengers, _ = f.GetInt("passengers")
	p.Manufacturer, _ = f.GetString("manufacturer")
	p.Model, _ = f.GetString("model")
	if f.Changed("initial-fuel") {
		v, _ := f.GetFloat64("initial-fuel")
		p.InitialFuel = &v
	}
	if f.Changed("fuel-price") {
		v, _ := f.GetFloat64("fuel-price")
		p.FuelPrice = &v
	}

	res, err := a.auto.Estimate(context.Background(), p)
	if err != nil {
		return err
	}
	format, _ := f.GetString("output")
	return printEstimate(os.Stdout, format, res)
}

func init() {
	addRouteFlags(autoCmd)
	addWindFlags(autoCmd)
	addOutputFlag(autoCmd)

	f := autoCmd.Flags()
	f.Int("passengers", 1, "number of passengers")
	f.String("manufacturer", "", "aircraft manufacturer (required)")
	f.String("model", "", "aircraft model (required)")
	f.Float64("initial-fuel", 0, "fuel on board at departure, liters")
	f.Float64("fuel-price", 0, "fuel price per liter (default: origin price, else cost.default_fuel_price)")
	autoCmd.MarkFlagRequired("manufacturer")
	autoCmd.MarkFlagRequired("model")

	rootCmd.AddCommand(autoCmd)
}
