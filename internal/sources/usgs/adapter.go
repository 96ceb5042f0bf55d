// Package usgs ingests events from the United States Geological
// Survey: significant earthquakes near monitored operations and
// mineral-commodity publications.
package usgs

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
	"github.com/vigia-labs/radar-cli/internal/logger"
	"github.com/vigia-labs/radar-cli/internal/sources/fetch"
	"github.com/vigia-labs/radar-cli/internal/sources/normalize"
	"github.com/vigia-labs/radar-cli/internal/sources/scrape"
)

// Default fetch targets and limits.
const (
	DefaultQuakeURL = "https://earthquake.usgs.gov/fdsnws/event/1"
	DefaultPubsURL  = "https://www.usgs.gov/centers/national-minerals-information-center"

	// DefaultMinMagnitude filters the earthquake query; smaller events
	// are below operational concern.
	DefaultMinMagnitude = 4.0

	DefaultQuakeLimit  = 100
	DefaultReportLimit = 50
)

var _ driven.SourceAdapter = (*Adapter)(nil)

// Config holds the adapter's fetch targets. Zero values take defaults.
type Config struct {
	QuakeURL     string
	PubsURL      string
	MinMagnitude float64

	QuakeLimit  int
	ReportLimit int

	Client *fetch.Client
}

// Adapter fetches and normalises USGS records.
type Adapter struct {
	cfg    Config
	client *fetch.Client
}

// New creates a USGS adapter.
func New(cfg Config) *Adapter {
	if cfg.QuakeURL == "" {
		cfg.QuakeURL = DefaultQuakeURL
	}
	if cfg.PubsURL == "" {
		cfg.PubsURL = DefaultPubsURL
	}
	if cfg.MinMagnitude == 0 {
		cfg.MinMagnitude = DefaultMinMagnitude
	}
	if cfg.QuakeLimit == 0 {
		cfg.QuakeLimit = DefaultQuakeLimit
	}
	if cfg.ReportLimit == 0 {
		cfg.ReportLimit = DefaultReportLimit
	}
	if cfg.Client == nil {
		cfg.Client = fetch.NewClient()
	}
	return &Adapter{cfg: cfg, client: cfg.Client}
}

// Source returns the USGS source code.
func (a *Adapter) Source() domain.SourceCode {
	return domain.SourceUSGS
}

// FetchAll fetches earthquakes and mineral reports.
func (a *Adapter) FetchAll(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event

	quakes, err := a.fetchEarthquakes(ctx)
	if err != nil {
		return nil, fmt.Errorf("usgs earthquakes: %w", err)
	}
	events = append(events, quakes...)

	reports, err := a.fetchMineralReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("usgs mineral reports: %w", err)
	}
	events = append(events, reports...)

	logger.Info("[USGS] collected %d events", len(events))
	return events, nil
}

// quakeFeature is one event in the FDSN GeoJSON response.
type quakeFeature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag   float64 `json:"mag"`
		Place string  `json:"place"`
		Time  int64   `json:"time"`
		URL   string  `json:"url"`
		Type  string  `json:"type"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

type quakeCollection struct {
	Features []quakeFeature `json:"features"`
}

func (a *Adapter) fetchEarthquakes(ctx context.Context) ([]domain.Event, error) {
	params := url.Values{
		"format":       {"geojson"},
		"minmagnitude": {strconv.FormatFloat(a.cfg.MinMagnitude, 'f', 1, 64)},
		"limit":        {strconv.Itoa(a.cfg.QuakeLimit)},
		"orderby":      {"time"},
	}

	var fc quakeCollection
	if err := a.client.GetJSON(ctx, a.cfg.QuakeURL+"/query", params, &fc); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.ID == "" {
			logger.Warn("[USGS] skipping earthquake feature without id")
			continue
		}

		var location *domain.GeoPoint
		if len(f.Geometry.Coordinates) >= 2 {
			location = &domain.GeoPoint{
				Longitude: f.Geometry.Coordinates[0],
				Latitude:  f.Geometry.Coordinates[1],
			}
		}

		ev := domain.Event{
			Source:      domain.SourceUSGS,
			SourceID:    "USGS-EQ-" + f.ID,
			EventType:   "earthquake",
			Title:       fmt.Sprintf("M%.1f - %s", f.Properties.Mag, f.Properties.Place),
			Description: "Seismic event near monitored operations",
			Severity:    EarthquakeSeverity(f.Properties.Mag),
			EventDate:   normalize.EpochMillis(f.Properties.Time),
			Location:    location,
			Status:      domain.StatusActive,
			Valid:       true,
			Metadata: map[string]any{
				"magnitude": f.Properties.Mag,
				"place":     f.Properties.Place,
				"url":       f.Properties.URL,
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[USGS] %d earthquakes normalised", len(events))
	return events, nil
}

func (a *Adapter) fetchMineralReports(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.PubsURL+"/publications", nil)
	if err != nil {
		return nil, err
	}

	doc, err := scrape.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing publications page: %w", err)
	}

	items := scrape.FindAll(doc, "div", "publication-item")
	if len(items) > a.cfg.ReportLimit {
		items = items[:a.cfg.ReportLimit]
	}

	events := make([]domain.Event, 0, len(items))
	for _, item := range items {
		title := scrape.Text(scrape.Find(item, "h3", ""))
		if title == "" {
			logger.Warn("[USGS] skipping publication without title")
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceUSGS,
			SourceID:    "USGS-PUB-" + normalize.ContentID("USGS-PUB", title),
			EventType:   "mineral_report",
			Title:       title,
			Description: scrape.Text(scrape.Find(item, "p", "")),
			Severity:    domain.SeverityLow,
			EventDate:   normalize.DateOrNow(scrape.Text(scrape.Find(item, "span", "date"))),
			Status:      domain.StatusActive,
			Valid:       true,
			Metadata: map[string]any{
				"url": scrape.Attr(scrape.Find(item, "a", ""), "href"),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[USGS] %d mineral reports normalised", len(events))
	return events, nil
}
