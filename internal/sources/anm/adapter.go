// Package anm ingests events from the Brazilian national mining agency
// (Agência Nacional de Mineração): mining process filings, infraction
// notices and portal news.
package anm

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
	DefaultBaseURL = "https://www.gov.br/anm/pt-br"
	DefaultAPIURL  = "https://sistemas.anm.gov.br/sied/api"

	DefaultProcessLimit    = 100
	DefaultNewsLimit       = 50
	DefaultInfractionLimit = 100
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Config holds the adapter's fetch targets. Zero values take defaults;
// tests override the URLs with httptest servers.
type Config struct {
	BaseURL string
	APIURL  string

	ProcessLimit    int
	NewsLimit       int
	InfractionLimit int

	Client *fetch.Client
}

// Adapter fetches and normalises ANM records.
type Adapter struct {
	cfg    Config
	client *fetch.Client
}

// New creates an ANM adapter.
func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.ProcessLimit == 0 {
		cfg.ProcessLimit = DefaultProcessLimit
	}
	if cfg.NewsLimit == 0 {
		cfg.NewsLimit = DefaultNewsLimit
	}
	if cfg.InfractionLimit == 0 {
		cfg.InfractionLimit = DefaultInfractionLimit
	}
	if cfg.Client == nil {
		cfg.Client = fetch.NewClient()
	}
	return &Adapter{cfg: cfg, client: cfg.Client}
}

// Source returns the ANM source code.
func (a *Adapter) Source() domain.SourceCode {
	return domain.SourceANM
}

// FetchAll fetches mining processes, infraction notices and news.
// A transport failure on any feed fails the whole source; individual
// malformed records are skipped and logged.
func (a *Adapter) FetchAll(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event

	processes, err := a.fetchProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("anm processes: %w", err)
	}
	events = append(events, processes...)

	infractions, err := a.fetchInfractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("anm infractions: %w", err)
	}
	events = append(events, infractions...)

	news, err := a.fetchNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("anm news: %w", err)
	}
	events = append(events, news...)

	logger.Info("[ANM] collected %d events", len(events))
	return events, nil
}

// processRecord is the payload shape of the SIED process API.
type processRecord struct {
	NumeroProcesso string   `json:"numero_processo"`
	Fase           string   `json:"fase"`
	Objeto         string   `json:"objeto"`
	UF             string   `json:"uf"`
	Municipio      string   `json:"municipio"`
	DataProtocolo  string   `json:"data_protocolo"`
	Substancia     string   `json:"substancia"`
	AreaHa         float64  `json:"area_ha"`
	Titular        string   `json:"titular"`
	CPFCNPJ        string   `json:"cpf_cnpj"`
	Ano            int      `json:"ano"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

func (a *Adapter) fetchProcesses(ctx context.Context) ([]domain.Event, error) {
	params := url.Values{
		"limit":   {strconv.Itoa(a.cfg.ProcessLimit)},
		"status":  {"active"},
		"orderBy": {"data_protocolo:desc"},
	}

	var payload struct {
		Data []processRecord `json:"data"`
	}
	if err := a.client.GetJSON(ctx, a.cfg.APIURL+"/processos", params, &payload); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(payload.Data))
	for _, rec := range payload.Data {
		ev, err := normalizeProcess(rec)
		if err != nil {
			logger.Warn("[ANM] skipping process: %v", err)
			continue
		}
		events = append(events, ev)
	}
	logger.Debug("[ANM] %d mining processes normalised", len(events))
	return events, nil
}

func normalizeProcess(rec processRecord) (domain.Event, error) {
	if rec.NumeroProcesso == "" {
		return domain.Event{}, fmt.Errorf("%w: process without number", domain.ErrSkipRecord)
	}

	fase := rec.Fase
	if fase == "" {
		fase = "fase desconhecida"
	}

	ev := domain.Event{
		Source:       domain.SourceANM,
		SourceID:     rec.NumeroProcesso,
		EventType:    "processo_minerario",
		Title:        fmt.Sprintf("Processo %s - %s", rec.NumeroProcesso, fase),
		Description:  rec.Objeto,
		Severity:     ProcessSeverity(rec.Fase),
		Location:     geoPoint(rec.Longitude, rec.Latitude),
		State:        rec.UF,
		Municipality: rec.Municipio,
		EventDate:    normalize.DateOrNow(rec.DataProtocolo),
		Status:       domain.StatusActive,
		Valid:        true,
		Metadata: map[string]any{
			"numero_processo": rec.NumeroProcesso,
			"fase":            rec.Fase,
			"substancia":      rec.Substancia,
			"area_ha":         rec.AreaHa,
			"titular":         rec.Titular,
			"cpf_cnpj":        rec.CPFCNPJ,
			"ano":             rec.Ano,
		},
	}
	return ev, nil
}

// infractionRecord is the payload shape of the enforcement API.
type infractionRecord struct {
	NumeroAuto        string  `json:"numero_auto"`
	Infracao          string  `json:"infracao"`
	DescricaoInfracao string  `json:"descricao_infracao"`
	ValorMulta        float64 `json:"valor_multa"`
	Empresa           string  `json:"empresa"`
	CNPJ              string  `json:"cnpj"`
	UF                string  `json:"uf"`
	Municipio         string  `json:"municipio"`
	DataAutuacao      string  `json:"data_autuacao"`
}

func (a *Adapter) fetchInfractions(ctx context.Context) ([]domain.Event, error) {
	params := url.Values{
		"limit":   {strconv.Itoa(a.cfg.InfractionLimit)},
		"orderBy": {"data:desc"},
	}

	var payload struct {
		Data []infractionRecord `json:"data"`
	}
	if err := a.client.GetJSON(ctx, a.cfg.APIURL+"/fiscalizacao/autuacoes", params, &payload); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(payload.Data))
	for _, rec := range payload.Data {
		ev, err := normalizeInfraction(rec)
		if err != nil {
			logger.Warn("[ANM] skipping infraction: %v", err)
			continue
		}
		events = append(events, ev)
	}
	logger.Debug("[ANM] %d infractions normalised", len(events))
	return events, nil
}

func normalizeInfraction(rec infractionRecord) (domain.Event, error) {
	if rec.NumeroAuto == "" {
		return domain.Event{}, fmt.Errorf("%w: infraction without number", domain.ErrSkipRecord)
	}

	ev := domain.Event{
		Source:       domain.SourceANM,
		SourceID:     rec.NumeroAuto,
		EventType:    "autuacao",
		Title:        fmt.Sprintf("Autuação %s - %s", rec.NumeroAuto, rec.Infracao),
		Description:  rec.DescricaoInfracao,
		Severity:     domain.SeverityHigh,
		State:        rec.UF,
		Municipality: rec.Municipio,
		EventDate:    normalize.DateOrNow(rec.DataAutuacao),
		Status:       domain.StatusActive,
		Valid:        true,
		Metadata: map[string]any{
			"numero_auto": rec.NumeroAuto,
			"infracao":    rec.Infracao,
			"valor_multa": rec.ValorMulta,
			"empresa":     rec.Empresa,
			"cnpj":        rec.CNPJ,
		},
	}
	return ev, nil
}

func (a *Adapter) fetchNews(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.BaseURL+"/assuntos/noticias", nil)
	if err != nil {
		return nil, err
	}

	doc, err := scrape.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing news page: %w", err)
	}

	articles := scrape.FindAll(doc, "article", "tile-item")
	if len(articles) > a.cfg.NewsLimit {
		articles = articles[:a.cfg.NewsLimit]
	}

	events := make([]domain.Event, 0, len(articles))
	for _, article := range articles {
		title := scrape.Text(scrape.Find(article, "h2", "tile-title"))
		if title == "" {
			logger.Warn("[ANM] skipping news item without title")
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceANM,
			SourceID:    "ANM-NEWS-" + normalize.ContentID("ANM-NEWS", title),
			EventType:   "noticia",
			Title:       title,
			Description: scrape.Text(scrape.Find(article, "p", "tile-description")),
			// News items are informational by convention.
			Severity:  domain.SeverityLow,
			EventDate: normalize.DateOrNow(scrape.Text(scrape.Find(article, "span", "tile-date"))),
			Status:    domain.StatusActive,
			Valid:     true,
			Metadata: map[string]any{
				"url": scrape.Attr(scrape.Find(article, "a", ""), "href"),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[ANM] %d news items normalised", len(events))
	return events, nil
}

func geoPoint(lon, lat *float64) *domain.GeoPoint {
	if lon == nil || lat == nil {
		return nil
	}
	return &domain.GeoPoint{Longitude: *lon, Latitude: *lat}
}
