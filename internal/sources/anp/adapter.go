// Package anp ingests events from the Brazilian petroleum and gas
// regulator (Agência Nacional do Petróleo): bidding rounds, active
// concession contracts and portal news.
package anp

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
	DefaultBaseURL = "https://www.gov.br/anp/pt-br"
	DefaultDataURL = "https://dados.gov.br/api/3/action"

	// Resource id of the active concessions dataset on the open-data
	// portal's CKAN datastore.
	ConcessionsResourceID = "concessoes-vigentes"

	DefaultRoundLimit      = 50
	DefaultConcessionLimit = 100
	DefaultNewsLimit       = 50
)

var _ driven.SourceAdapter = (*Adapter)(nil)

// Config holds the adapter's fetch targets. Zero values take defaults.
type Config struct {
	BaseURL string
	DataURL string

	RoundLimit      int
	ConcessionLimit int
	NewsLimit       int

	Client *fetch.Client
}

// Adapter fetches and normalises ANP records.
type Adapter struct {
	cfg    Config
	client *fetch.Client
}

// New creates an ANP adapter.
func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DataURL == "" {
		cfg.DataURL = DefaultDataURL
	}
	if cfg.RoundLimit == 0 {
		cfg.RoundLimit = DefaultRoundLimit
	}
	if cfg.ConcessionLimit == 0 {
		cfg.ConcessionLimit = DefaultConcessionLimit
	}
	if cfg.NewsLimit == 0 {
		cfg.NewsLimit = DefaultNewsLimit
	}
	if cfg.Client == nil {
		cfg.Client = fetch.NewClient()
	}
	return &Adapter{cfg: cfg, client: cfg.Client}
}

// Source returns the ANP source code.
func (a *Adapter) Source() domain.SourceCode {
	return domain.SourceANP
}

// FetchAll fetches bidding rounds, concessions and news.
func (a *Adapter) FetchAll(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event

	rounds, err := a.fetchBiddingRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("anp bidding rounds: %w", err)
	}
	events = append(events, rounds...)

	concessions, err := a.fetchConcessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("anp concessions: %w", err)
	}
	events = append(events, concessions...)

	news, err := a.fetchNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("anp news: %w", err)
	}
	events = append(events, news...)

	logger.Info("[ANP] collected %d events", len(events))
	return events, nil
}

// fetchBiddingRounds scrapes the exploration rounds listing.
func (a *Adapter) fetchBiddingRounds(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.BaseURL+"/rodadas-anp", nil)
	if err != nil {
		return nil, err
	}

	doc, err := scrape.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing bidding rounds page: %w", err)
	}

	tiles := scrape.FindAll(doc, "div", "tile-content")
	if len(tiles) > a.cfg.RoundLimit {
		tiles = tiles[:a.cfg.RoundLimit]
	}

	events := make([]domain.Event, 0, len(tiles))
	for _, tile := range tiles {
		title := scrape.Text(scrape.Find(tile, "h2", ""))
		if title == "" {
			logger.Warn("[ANP] skipping bidding round without title")
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceANP,
			SourceID:    "ANP-ROUND-" + normalize.ContentID("ANP-ROUND", title),
			EventType:   EventTypeBiddingRound,
			Title:       title,
			Description: scrape.Text(scrape.Find(tile, "p", "")),
			Severity:    FeedSeverity(EventTypeBiddingRound),
			EventDate:   normalize.DateOrNow(scrape.Text(scrape.Find(tile, "span", "date"))),
			Status:    domain.StatusActive,
			Valid:     true,
			Metadata: map[string]any{
				"url": scrape.Attr(scrape.Find(tile, "a", ""), "href"),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[ANP] %d bidding rounds normalised", len(events))
	return events, nil
}

// concessionRecord is a row of the CKAN datastore_search response.
type concessionRecord struct {
	NumeroContrato string `json:"numero_contrato"`
	Bloco          string `json:"bloco"`
	Bacia          string `json:"bacia"`
	Operador       string `json:"operador"`
	UF             string `json:"uf"`
	Fase           string `json:"fase"`
	DataAssinatura string `json:"data_assinatura"`
}

type datastoreResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Records []concessionRecord `json:"records"`
	} `json:"result"`
}

func (a *Adapter) fetchConcessions(ctx context.Context) ([]domain.Event, error) {
	params := url.Values{
		"resource_id": {ConcessionsResourceID},
		"limit":       {strconv.Itoa(a.cfg.ConcessionLimit)},
	}

	var resp datastoreResponse
	if err := a.client.GetJSON(ctx, a.cfg.DataURL+"/datastore_search", params, &resp); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(resp.Result.Records))
	for _, rec := range resp.Result.Records {
		if rec.NumeroContrato == "" {
			logger.Warn("[ANP] skipping concession without contract number")
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceANP,
			SourceID:    "ANP-CON-" + rec.NumeroContrato,
			EventType:   EventTypeConcession,
			Title:       "Concessão " + rec.Bloco + " - " + rec.Operador,
			Description: "Bacia " + rec.Bacia + ", fase " + rec.Fase,
			Severity:    FeedSeverity(EventTypeConcession),
			State:       rec.UF,
			EventDate:   normalize.DateOrNow(rec.DataAssinatura),
			Status:      domain.StatusActive,
			Valid:       true,
			Metadata: map[string]any{
				"numero_contrato": rec.NumeroContrato,
				"bloco":           rec.Bloco,
				"bacia":           rec.Bacia,
				"operador":        rec.Operador,
				"fase":            rec.Fase,
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[ANP] %d concessions normalised", len(events))
	return events, nil
}

func (a *Adapter) fetchNews(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.BaseURL+"/canais_atendimento/imprensa/noticias-comunicados", nil)
	if err != nil {
		return nil, err
	}

	doc, err := scrape.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing news page: %w", err)
	}

	articles := scrape.FindAll(doc, "article", "tileItem")
	if len(articles) > a.cfg.NewsLimit {
		articles = articles[:a.cfg.NewsLimit]
	}

	events := make([]domain.Event, 0, len(articles))
	for _, article := range articles {
		title := scrape.Text(scrape.Find(article, "h2", ""))
		if title == "" {
			logger.Warn("[ANP] skipping news item without title")
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceANP,
			SourceID:    "ANP-NEWS-" + normalize.ContentID("ANP-NEWS", title),
			EventType:   EventTypeNews,
			Title:       title,
			Description: scrape.Text(scrape.Find(article, "div", "tileBody")),
			Severity:    FeedSeverity(EventTypeNews),
			EventDate:   normalize.DateOrNow(""),
			Status:      domain.StatusActive,
			Valid:       true,
			Metadata: map[string]any{
				"url": scrape.Attr(scrape.Find(article, "a", ""), "href"),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[ANP] %d news items normalised", len(events))
	return events, nil
}
