// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trip-estimator/internal/cache"
	"github.com/pdiddy/trip-estimator/pkg/types"
)

var specsCmd = &cobra.Command{
	Use:   "specs",
	Short: "Resolve, override and export cached aircraft specs",
	Long: `Specs manages the aircraft spec cache. Resolved specs stay fresh for 90
days; manual overrides never go stale and always win over resolved values.`,
}

// --- resolve subcommand ---

var specsResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve specs for an aircraft through the cache and tier pipeline",
	RunE:  runSpecsResolve,
}

func runSpecsResolve(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	key := aircraftKeyFromFlags(cmd)
	s, err := a.resolver.Resolve(context.Background(), key)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	return printSpecs(os.Stdout, format, key, s)
}

// --- show subcommand ---

var specsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached entry for an aircraft without resolving",
	RunE:  runSpecsShow,
}

func runSpecsShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	key := aircraftKeyFromFlags(cmd)
	entry, err := a.resolver.Entry(context.Background(), key)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("no cached specs for %s", key)
	}
	format, _ := cmd.Flags().GetString("output")
	if done, err := writeStructured(os.Stdout, format, entry); done {
		return err
	}
	stale := "never (manual override)"
	if entry.StaleAt != nil {
		stale = entry.StaleAt.Format(time.DateOnly)
	}
	fmt.Printf("Updated %s, stale at %s\n", entry.UpdatedAt.Format(time.DateOnly), stale)
	return printSpecs(os.Stdout, formatTable, key, &entry.Specs)
}

// --- override subcommand ---

var specsOverrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Store manual spec values that replace resolved ones permanently",
	Long: `Override merges the given values onto the cached specs for an aircraft,
with the given values winning, and marks the entry as never stale. Only
flags that are set are applied.`,
	Example: `  trip-estimator specs override --manufacturer Cessna --model 172 --cruise-normal 122 --burn-cruise 36`,
	RunE:    runSpecsOverride,
}

// overrideFlags maps override flags to spec fields and units.
var overrideFlags = []struct {
	flag  string
	field string
	unit  string
	usage string
}{
	{"cruise-normal", "cruiseSpeed.normal", "kt", "normal cruise speed, knots"},
	{"cruise-economic", "cruiseSpeed.economic", "kt", "economic cruise speed, knots"},
	{"cruise-max", "cruiseSpeed.max", "kt", "maximum cruise speed, knots"},
	{"burn-climb", "fuelBurn.climb", "L/h", "climb fuel burn, liters per hour"},
	{"burn-cruise", "fuelBurn.cruise", "L/h", "cruise fuel burn, liters per hour"},
	{"burn-descent", "fuelBurn.descent", "L/h", "descent fuel burn, liters per hour"},
	{"mtow", "mtow", "kg", "maximum takeoff weight, kg"},
	{"seats", "seats", "", "seat count"},
	{"range", "range", "NM", "range, nautical miles"},
	{"engine-power", "enginePower", "hp", "engine power, hp"},
	{"rate-of-climb", "rateOfClimb", "fpm", "rate of climb, feet per minute"},
	{"cruise-altitude", "cruiseAltitude", "ft", "typical cruise altitude, feet"},
}

var overrideTextFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"engine-type", "engineType", "engine type, e.g. piston, turboprop, jet"},
	{"fuel-type", "fuelType", "fuel type: avgas or jet-a"},
}

func runSpecsOverride(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	notes, _ := f.GetString("notes")

	overrides := &types.ResolvedSpecs{}
	slots := map[string]**types.Measurement{}
	for _, fld := range overrides.Fields() {
		slots[fld.Name] = fld.Ptr
	}

	set := 0
	for _, o := range overrideFlags {
		if !f.Changed(o.flag) {
			continue
		}
		v, _ := f.GetFloat64(o.flag)
		*slots[o.field] = &types.Measurement{Value: v, Unit: o.unit, Source: types.SourceManual, Notes: notes}
		set++
	}
	for _, o := range overrideTextFlags {
		if !f.Changed(o.flag) {
			continue
		}
		v, _ := f.GetString(o.flag)
		*slots[o.field] = &types.Measurement{Text: strings.ToLower(v), Source: types.SourceManual, Notes: notes}
		set++
	}
	if set == 0 {
		return fmt.Errorf("no override values given")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	key := aircraftKeyFromFlags(cmd)
	entry, err := a.resolver.SetManualOverride(context.Background(), key, overrides)
	if err != nil {
		return err
	}
	format, _ := f.GetString("output")
	if done, err := writeStructured(os.Stdout, format, entry); done {
		return err
	}
	fmt.Printf("Override stored for %s (%d field(s)).\n", key, set)
	return printSpecs(os.Stdout, formatTable, key, &entry.Specs)
}

// --- list subcommand ---

var specsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached aircraft specs",
	RunE:  runSpecsList,
}

func runSpecsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := cache.Export(context.Background(), a.store)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	if done, err := writeStructured(os.Stdout, format, entries); done {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No cached specs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s  %-8s  %-8s  %s\n", "Key", "Override", "Complete", "Stale at")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, e := range entries {
		stale := "never"
		if e.StaleAt != nil {
			stale = e.StaleAt.Format(time.DateOnly)
		}
		fmt.Fprintf(os.Stdout, "%-40s  %-8t  %-8t  %s\n", e.Key, e.Override, e.Complete, stale)
	}
	return nil
}

// --- export subcommand ---

var specsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the spec cache to YAML or JSON",
	RunE:  runSpecsExport,
}

func runSpecsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	dir, _ := cmd.Flags().GetString("dir")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	var path string
	switch format {
	case formatYAML:
		path, err = cache.ExportYAML(ctx, a.store, dir)
	case formatJSON:
		path, err = cache.ExportJSON(ctx, a.store, dir)
	default:
		return fmt.Errorf("unsupported export format %q (use yaml or json)", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported spec cache to %s\n", path)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{specsResolveCmd, specsShowCmd, specsOverrideCmd} {
		addAircraftFlags(c)
		addOutputFlag(c)
	}

	of := specsOverrideCmd.Flags()
	for _, o := range overrideFlags {
		of.Float64(o.flag, 0, o.usage)
	}
	for _, o := range overrideTextFlags {
		of.String(o.flag, "", o.usage)
	}
	of.String("notes", "", "free-text note stored with each overridden value")

	addOutputFlag(specsListCmd)

	specsExportCmd.Flags().String("format", formatYAML, "export format: yaml or json")
	specsExportCmd.Flags().String("dir", "data/export", "directory for the export file")

	specsCmd.AddCommand(specsResolveCmd)
	specsCmd.AddCommand(specsShowCmd)
	specsCmd.AddCommand(specsOverrideCmd)
	specsCmd.AddCommand(specsListCmd)
	specsCmd.AddCommand(specsExportCmd)
	rootCmd.AddCommand(specsCmd)
}
