// Package cprm ingests events from the Brazilian geological survey
// (Serviço Geológico do Brasil): survey projects, mineral occurrences
// and portal news.
package cprm

import (
	"context"
	"fmt"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
	"github.com/vigia-labs/radar-cli/internal/logger"
	"github.com/vigia-labs/radar-cli/internal/sources/fetch"
	"github.com/vigia-labs/radar-cli/internal/sources/normalize"
	"github.com/vigia-labs/radar-cli/internal/sources/scrape"
)

// Default fetch targets and limits.
const (
	DefaultBaseURL = "https://www.sgb.gov.br"
	DefaultAPIURL  = "https://geoportal.sgb.gov.br/api"

	DefaultProjectLimit    = 100
	DefaultOccurrenceLimit = 100
	DefaultNewsLimit       = 50
)

var _ driven.SourceAdapter = (*Adapter)(nil)

// Config holds the adapter's fetch targets. Zero values take defaults.
type Config struct {
	BaseURL string
	APIURL  string

	ProjectLimit    int
	OccurrenceLimit int
	NewsLimit       int

	Client *fetch.Client
}

// Adapter fetches and normalises CPRM records.
type Adapter struct {
	cfg    Config
	client *fetch.Client
}

// New creates a CPRM adapter.
func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.ProjectLimit == 0 {
		cfg.ProjectLimit = DefaultProjectLimit
	}
	if cfg.OccurrenceLimit == 0 {
		cfg.OccurrenceLimit = DefaultOccurrenceLimit
	}
	if cfg.NewsLimit == 0 {
		cfg.NewsLimit = DefaultNewsLimit
	}
	if cfg.Client == nil {
		cfg.Client = fetch.NewClient()
	}
	return &Adapter{cfg: cfg, client: cfg.Client}
}

// Source returns the CPRM source code.
func (a *Adapter) Source() domain.SourceCode {
	return domain.SourceCPRM
}

// FetchAll fetches projects, mineral occurrences and news.
func (a *Adapter) FetchAll(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event

	projects, err := a.fetchProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("cprm projects: %w", err)
	}
	events = append(events, projects...)

	occurrences, err := a.fetchOccurrences(ctx)
	if err != nil {
		return nil, fmt.Errorf("cprm occurrences: %w", err)
	}
	events = append(events, occurrences...)

	news, err := a.fetchNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("cprm news: %w", err)
	}
	events = append(events, news...)

	logger.Info("[CPRM] collected %d events", len(events))
	return events, nil
}

// featureCollection is the GeoJSON envelope both geoportal endpoints use.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID       string `json:"id"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// location returns the point geometry as a GeoPoint, nil when absent.
func (f feature) location() *domain.GeoPoint {
	if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
		return nil
	}
	return &domain.GeoPoint{
		Longitude: f.Geometry.Coordinates[0],
		Latitude:  f.Geometry.Coordinates[1],
	}
}

// prop returns a string property or "".
func (f feature) prop(key string) string {
	if v, ok := f.Properties[key].(string); ok {
		return v
	}
	return ""
}

func (a *Adapter) fetchProjects(ctx context.Context) ([]domain.Event, error) {
	var fc featureCollection
	if err := a.client.GetJSON(ctx, a.cfg.APIURL+"/projetos", nil, &fc); err != nil {
		return nil, err
	}

	features := fc.Features
	if len(features) > a.cfg.ProjectLimit {
		features = features[:a.cfg.ProjectLimit]
	}

	events := make([]domain.Event, 0, len(features))
	for _, f := range features {
		if f.ID == "" {
			logger.Warn("[CPRM] skipping project feature without id")
			continue
		}

		projectType := f.prop("tipo")
		ev := domain.Event{
			Source:       domain.SourceCPRM,
			SourceID:     "CPRM-PROJ-" + f.ID,
			EventType:    "geological_project",
			Title:        f.prop("nome"),
			Description:  f.prop("descricao"),
			Severity:     ProjectSeverity(projectType),
			State:        f.prop("uf"),
			Municipality: f.prop("municipio"),
			EventDate:    normalize.DateOrNow(f.prop("data_inicio")),
			Location:     f.location(),
			Status:       domain.StatusActive,
			Valid:        true,
			Metadata: map[string]any{
				"tipo":   projectType,
				"status": f.prop("status"),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[CPRM] %d projects normalised", len(events))
	return events, nil
}

func (a *Adapter) fetchOccurrences(ctx context.Context) ([]domain.Event, error) {
	var fc featureCollection
	if err := a.client.GetJSON(ctx, a.cfg.APIURL+"/ocorrencias-minerais", nil, &fc); err != nil {
		return nil, err
	}

	features := fc.Features
	if len(features) > a.cfg.OccurrenceLimit {
		features = features[:a.cfg.OccurrenceLimit]
	}

	events := make([]domain.Event, 0, len(features))
	for _, f := range features {
		if f.ID == "" {
			logger.Warn("[CPRM] skipping occurrence feature without id")
			continue
		}

		substance := f.prop("substancia")
		ev := domain.Event{
			Source:       domain.SourceCPRM,
			SourceID:     "CPRM-OCC-" + f.ID,
			EventType:    "mineral_occurrence",
			Title:        "Ocorrência Mineral - " + substance,
			Description:  f.prop("descricao"),
			Severity:     domain.SeverityMedium,
			State:        f.prop("uf"),
			Municipality: f.prop("municipio"),
			EventDate:    normalize.DateOrNow(f.prop("data_cadastro")),
			Location:     f.location(),
			Status:       domain.StatusActive,
			Valid:        true,
			Metadata: map[string]any{
				"substancia": substance,
				"grau":       f.prop("grau_importancia"),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[CPRM] %d occurrences normalised", len(events))
	return events, nil
}

func (a *Adapter) fetchNews(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.BaseURL+"/publique/Noticias", nil)
	if err != nil {
		return nil, err
	}

	doc, err := scrape.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing news page: %w", err)
	}

	articles := scrape.FindAll(doc, "article", "noticia")
	if len(articles) > a.cfg.NewsLimit {
		articles = articles[:a.cfg.NewsLimit]
	}

	events := make([]domain.Event, 0, len(articles))
	for _, article := range articles {
		title := scrape.Text(scrape.Find(article, "h2", "titulo"))
		if title == "" {
			logger.Warn("[CPRM] skipping news item without title")
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceCPRM,
			SourceID:    "CPRM-NEWS-" + normalize.ContentID("CPRM-NEWS", title),
			EventType:   "news",
			Title:       title,
			Description: scrape.Text(scrape.Find(article, "p", "resumo")),
			Severity:    domain.SeverityLow,
			EventDate:   normalize.DateOrNow(scrape.Text(scrape.Find(article, "time", ""))),
			Status:      domain.StatusActive,
			Valid:       true,
			Metadata: map[string]any{
				"url": scrape.Attr(scrape.Find(article, "a", ""), "href"),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[CPRM] %d news items normalised", len(events))
	return events, nil
}
