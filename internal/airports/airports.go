// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package airports looks up airports by ICAO, GPS, IATA or local code.
// The directory is loaded once from a YAML file, or from a small built-in
// set when no file is configured.
package airports

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trip-estimator/pkg/types"
)

// Directory finds airports by code. FindByCode returns (nil, nil) when no
// airport matches.
type Directory interface {
	FindByCode(ctx context.Context, code string) (*types.Airport, error)
}

// airportFile is the on-disk layout of an airports file.
type airportFile struct {
	Airports []types.Airport `yaml:"airports"`
}

// FileDirectory serves airports from a YAML file loaded on first use.
type FileDirectory struct {
	path string

	once    sync.Once
	loadErr error
	list    []types.Airport
	byCode  map[string]int
}

// NewFileDirectory returns a directory backed by path. An empty path uses
// the built-in airports.
func NewFileDirectory(path string) *FileDirectory {
	return &FileDirectory{path: path}
}

// LoadAirports reads and indexes the airports. Only the first call does
// any work; later calls return the first call's error.
func (d *FileDirectory) LoadAirports() error {
	d.once.Do(func() {
		list := builtin
		if d.path != "" {
			list, d.loadErr = ReadFile(d.path)
			if d.loadErr != nil {
				return
			}
		}
		d.list = list
		d.byCode = make(map[string]int, len(list)*2)
		for i := range list {
			for _, c := range list[i].Codes() {
				k := strings.ToUpper(c)
				if _, dup := d.byCode[k]; !dup {
					d.byCode[k] = i
				}
			}
		}
	})
	return d.loadErr
}

// FindByCode matches code case-insensitively against every identifier of
// every airport.
func (d *FileDirectory) FindByCode(_ context.Context, code string) (*types.Airport, error) {
	if err := d.LoadAirports(); err != nil {
		return nil, err
	}
	i, ok := d.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, nil
	}
	a := d.list[i]
	return &a, nil
}

// All returns a copy of every loaded airport.
func (d *FileDirectory) All() ([]types.Airport, error) {
	if err := d.LoadAirports(); err != nil {
		return nil, err
	}
	return append([]types.Airport(nil), d.list...), nil
}

// ReadFile parses an airports YAML file.
func ReadFile(path string) ([]types.Airport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading airports file: %w", err)
	}
	var f airportFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing airports file %s: %w", path, err)
	}
	for i, a := range f.Airports {
		if a.Ident == "" {
			return nil, fmt.Errorf("airports file %s: entry %d has no ident", path, i)
		}
	}
	return f.Airports, nil
}

// WriteFile writes airports as YAML in the layout ReadFile expects.
func WriteFile(path string, list []types.Airport) error {
	data, err := yaml.Marshal(airportFile{Airports: list})
	if err != nil {
		return fmt.Errorf("marshaling airports: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing airports file: %w", err)
	}
	return nil
}

// builtin covers the main Brazilian airports without price data.
var builtin = []types.Airport{
	{Ident: "SBSP", ICAO: "SBSP", IATA: "CGH", GPSCode: "SBSP", Name: "Congonhas Airport", Latitude: -23.626111, Longitude: -46.656389, Elevation: 2631, Country: "BR", Region: "BR-SP", Municipality: "São Paulo", ScheduledService: true},
	{Ident: "SBRJ", ICAO: "SBRJ", IATA: "SDU", GPSCode: "SBRJ", Name: "Santos Dumont Airport", Latitude: -22.910461, Longitude: -43.163133, Elevation: 11, Country: "BR", Region: "BR-RJ", Municipality: "Rio de Janeiro", ScheduledService: true},
	{Ident: "SBGR", ICAO: "SBGR", IATA: "GRU", GPSCode: "SBGR", Name: "Guarulhos International Airport", Latitude: -23.435556, Longitude: -46.473056, Elevation: 2459, Country: "BR", Region: "BR-SP", Municipality: "São Paulo", ScheduledService: true},
	{Ident: "SBKP", ICAO: "SBKP", IATA: "VCP", GPSCode: "SBKP", Name: "Viracopos International Airport", Latitude: -23.007404, Longitude: -47.134502, Elevation: 2170, Country: "BR", Region: "BR-SP", Municipality: "Campinas", ScheduledService: true},
	{Ident: "SBBR", ICAO: "SBBR", IATA: "BSB", GPSCode: "SBBR", Name: "Brasília International Airport", Latitude: -15.869167, Longitude: -47.920834, Elevation: 3497, Country: "BR", Region: "BR-DF", Municipality: "Brasília", ScheduledService: true},
	{Ident: "SBGL", ICAO: "SBGL", IATA: "GIG", GPSCode: "SBGL", Name: "Rio de Janeiro/Galeão International Airport", Latitude: -22.809999, Longitude: -43.250557, Elevation: 28, Country: "BR", Region: "BR-RJ", Municipality: "Rio de Janeiro", ScheduledService: true},
	{Ident: "SBCF", ICAO: "SBCF", IATA: "CNF", GPSCode: "SBCF", Name: "Tancredo Neves International Airport", Latitude: -19.62444, Longitude: -43.971943, Elevation: 2715, Country: "BR", Region: "BR-MG", Municipality: "Belo Horizonte", ScheduledService: true},
	{Ident: "SBPA", ICAO: "SBPA", IATA: "POA", GPSCode: "SBPA", Name: "Salgado Filho International Airport", Latitude: -29.994444, Longitude: -51.171389, Elevation: 11, Country: "BR", Region: "BR-RS", Municipality: "Porto Alegre", ScheduledService: true},
}
