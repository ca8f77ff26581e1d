// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trip-estimator/internal/airports"
	"github.com/pdiddy/trip-estimator/internal/estimate"
)

var airportsCmd = &cobra.Command{
	Use:   "airports",
	Short: "List, look up and export airports",
	Long: `Airports inspects the airport directory used for estimates: the file
given by --airports, or the built-in set.`,
}

var airportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known airport",
	RunE:  runAirportsList,
}

func runAirportsList(cmd *cobra.Command, args []string) error {
	dir := airports.NewFileDirectory(loadConfig().AirportsFile)
	list, err := dir.All()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	if done, err := writeStructured(os.Stdout, format, list); done {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-4s  %-40s  %10s  %10s\n", "ICAO", "IATA", "Name", "Lat", "Lon")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 78))
	for _, a := range list {
		fmt.Fprintf(os.Stdout, "%-6s  %-4s  %-40s  %10.4f  %10.4f\n", a.Code(), a.IATA, a.Name, a.Latitude, a.Longitude)
	}
	return nil
}

var airportsShowCmd = &cobra.Command{
	Use:   "show CODE",
	Short: "Show one airport by ICAO, IATA, GPS or local code",
	Args:  cobra.ExactArgs(1),
	RunE:  runAirportsShow,
}

func runAirportsShow(cmd *cobra.Command, args []string) error {
	dir := airports.NewFileDirectory(loadConfig().AirportsFile)
	ap, err := dir.FindByCode(context.Background(), args[0])
	if err != nil {
		return err
	}
	if ap == nil {
		return &estimate.AirportNotFoundError{Code: args[0]}
	}
	format, _ := cmd.Flags().GetString("output")
	if format == formatTable {
		format = formatYAML
	}
	_, err = writeStructured(os.Stdout, format, ap)
	return err
}

var airportsExportCmd = &cobra.Command{
	Use:   "export PATH",
	Short: "Write the airport directory to a YAML file",
	Long: `Export writes the current airport directory in the layout --airports
reads. Edit the file to add fuel prices and fees, then pass it back with
--airports.`,
	Args: cobra.ExactArgs(1),
	RunE: runAirportsExport,
}

func runAirportsExport(cmd *cobra.Command, args []string) error {
	dir := airports.NewFileDirectory(loadConfig().AirportsFile)
	list, err := dir.All()
	if err != nil {
		return err
	}
	if err := airports.WriteFile(args[0], list); err != nil {
		return err
	}
	fmt.Printf("Wrote %d airport(s) to %s\n", len(list), args[0])
	return nil
}

func init() {
	addOutputFlag(airportsListCmd)
	addOutputFlag(airportsShowCmd)

	airportsCmd.AddCommand(airportsListCmd)
	airportsCmd.AddCommand(airportsShowCmd)
	airportsCmd.AddCommand(airportsExportCmd)
	rootCmd.AddCommand(airportsCmd)
}
