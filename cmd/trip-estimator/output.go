// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", formatTable, "output format: table, json, yaml")
}

// writeStructured encodes v as JSON or YAML. It reports false for the
// table format so the caller can print its own layout.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case formatTable, "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q (use table, json or yaml)", format)
	}
}

// printEstimate writes r in the chosen format.
func printEstimate(w io.Writer, format string, r *types.FlightEstimateResult) error {
	if done, err := writeStructured(w, format, r); done {
		return err
	}

	fmt.Fprintf(w, "%s → %s  %s  (%s profile)\n", r.Origin.Code(), r.Destination.Code(), r.Aircraft, r.Profile)
	fmt.Fprintf(w, "Distance %.1f NM, course %03.0f°, altitude %.0f ft\n", r.DistanceNM, r.Course, r.Altitude)
	fmt.Fprintf(w, "TAS %.0f kt (%s), GS %.0f kt, headwind %.1f kt\n",
		r.TrueAirspeed, r.Performance.CruiseSpeed.Method, r.GroundSpeed, r.WindComponent)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-8s  %10s  %10s\n", "Phase", "Minutes", "Fuel (L)")
	fmt.Fprintln(w, strings.Repeat("-", 32))
	for _, row := range []struct {
		name string
		p    types.PhaseEstimate
	}{
		{"taxi", r.Phases.Taxi},
		{"climb", r.Phases.Climb},
		{"cruise", r.Phases.Cruise},
		{"descent", r.Phases.Descent},
	} {
		fmt.Fprintf(w, "%-8s  %10.1f  %10.1f\n", row.name, row.p.TimeMinutes, row.p.Fuel)
	}
	fmt.Fprintln(w)

	t := r.Totals
	fmt.Fprintf(w, "Flight time %.2f h, block time %.2f h\n", t.FlightTimeHours, t.BlockTimeHours)
	fmt.Fprintf(w, "Fuel %.1f L + reserve %.1f L = %.1f L\n", t.FuelNecessary, t.FuelReserve, t.FuelTotal)
	if r.InitialFuel > 0 {
		fmt.Fprintf(w, "Initial fuel %.1f L, shortfall %.1f L\n", r.InitialFuel, r.FuelShortfall)
	}

	c := r.Costs
	fmt.Fprintf(w, "Fuel price %.2f/L (%s)\n", r.FuelPrice, r.FuelPriceSource)
	fmt.Fprintf(w, "Cost: fuel %.2f, landing %.2f, parking %.2f, operational %.2f, total %.2f\n",
		c.Fuel, c.Landing, c.Parking, c.Operational, c.Total)
	fmt.Fprintf(w, "Rates: %.2f/h, %.2f/NM, %.2f/km, %.1f L/h, %.1f NM/gal\n",
		r.Rates.CostPerHour, r.Rates.CostPerNM, r.Rates.CostPerKM, r.Rates.FuelPerHour, r.Rates.Efficiency)
	fmt.Fprintln(w)

	u := r.Uncertainty
	fmt.Fprintf(w, "Confidence %s (score %d), ±%.0f%%\n", r.Confidence, r.ConfidenceScore, u.Multiplier*100)
	fmt.Fprintf(w, "  time %.2f–%.2f h, fuel %.1f–%.1f L, cost %.2f–%.2f\n",
		u.Time.Min, u.Time.Max, u.Fuel.Min, u.Fuel.Max, u.Cost.Min, u.Cost.Max)
	for _, reason := range r.ConfidenceReasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
	return nil
}

// printSpecs writes a field table for specs.
func printSpecs(w io.Writer, format string, key types.AircraftKey, s *types.ResolvedSpecs) error {
	if done, err := writeStructured(w, format, s); done {
		return err
	}

	fmt.Fprintf(w, "%s  complete=%t\n", key, s.IsComplete)
	fmt.Fprintf(w, "%-22s  %-14s  %-10s  %s\n", "Field", "Value", "Source", "Confidence")
	fmt.Fprintln(w, strings.Repeat("-", 64))
	for _, f := range s.Fields() {
		m := *f.Ptr
		if m == nil {
			fmt.Fprintf(w, "%-22s  %-14s\n", f.Name, "-")
			continue
		}
		value := m.Text
		if value == "" {
			value = strings.TrimSpace(fmt.Sprintf("%g %s", m.Value, m.Unit))
		}
		fmt.Fprintf(w, "%-22s  %-14s  %-10s  %s\n", f.Name, value, m.Source, m.Confidence)
	}
	return nil
}
