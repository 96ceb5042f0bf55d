// Package ibama ingests events from the Brazilian environmental agency
// (Instituto Brasileiro do Meio Ambiente): environmental licenses,
// embargoed areas, infraction notices and portal news.
package ibama

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
	"github.com/vigia-labs/radar-cli/internal/logger"
	"github.com/vigia-labs/radar-cli/internal/sources/fetch"
	"github.com/vigia-labs/radar-cli/internal/sources/normalize"
	"github.com/vigia-labs/radar-cli/internal/sources/scrape"
	"golang.org/x/net/html"
)

// Default fetch targets and limits.
const (
	DefaultBaseURL   = "https://servicos.ibama.gov.br"
	DefaultPortalURL = "https://www.gov.br/ibama/pt-br"

	DefaultLicenseLimit    = 100
	DefaultEmbargoLimit    = 100
	DefaultInfractionLimit = 100
	DefaultNewsLimit       = 50
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Config holds the adapter's fetch targets. Zero values take defaults.
type Config struct {
	BaseURL   string
	PortalURL string

	LicenseLimit    int
	EmbargoLimit    int
	InfractionLimit int
	NewsLimit       int

	Client *fetch.Client
}

// Adapter fetches and normalises IBAMA records.
type Adapter struct {
	cfg    Config
	client *fetch.Client
}

// New creates an IBAMA adapter.
func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PortalURL == "" {
		cfg.PortalURL = DefaultPortalURL
	}
	if cfg.LicenseLimit == 0 {
		cfg.LicenseLimit = DefaultLicenseLimit
	}
	if cfg.EmbargoLimit == 0 {
		cfg.EmbargoLimit = DefaultEmbargoLimit
	}
	if cfg.InfractionLimit == 0 {
		cfg.InfractionLimit = DefaultInfractionLimit
	}
	if cfg.NewsLimit == 0 {
		cfg.NewsLimit = DefaultNewsLimit
	}
	if cfg.Client == nil {
		cfg.Client = fetch.NewClient()
	}
	return &Adapter{cfg: cfg, client: cfg.Client}
}

// Source returns the IBAMA source code.
func (a *Adapter) Source() domain.SourceCode {
	return domain.SourceIBAMA
}

// FetchAll fetches licenses, embargoes, infractions and news.
func (a *Adapter) FetchAll(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event

	licenses, err := a.fetchLicenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("ibama licenses: %w", err)
	}
	events = append(events, licenses...)

	embargoes, err := a.fetchEmbargoes(ctx)
	if err != nil {
		return nil, fmt.Errorf("ibama embargoes: %w", err)
	}
	events = append(events, embargoes...)

	infractions, err := a.fetchInfractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("ibama infractions: %w", err)
	}
	events = append(events, infractions...)

	news, err := a.fetchNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("ibama news: %w", err)
	}
	events = append(events, news...)

	logger.Info("[IBAMA] collected %d events", len(events))
	return events, nil
}

// fetchLicenses scrapes the environmental license listing table.
// Row layout: number, holder, description, license type, state,
// municipality, issue date.
func (a *Adapter) fetchLicenses(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.BaseURL+"/licenciamento/consulta-empreendimentos.php", nil)
	if err != nil {
		return nil, err
	}

	doc, err := scrape.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing license page: %w", err)
	}

	rows := scrape.FindAll(doc, "tr", "licenca-row")
	if len(rows) > a.cfg.LicenseLimit {
		rows = rows[:a.cfg.LicenseLimit]
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		cols := cellTexts(row)
		if len(cols) < 4 || cols[0] == "" {
			logger.Warn("[IBAMA] skipping license row with %d columns", len(cols))
			continue
		}

		licenseType := cols[3]
		ev := domain.Event{
			Source:       domain.SourceIBAMA,
			SourceID:     "IBAMA-LIC-" + cols[0],
			EventType:    "environmental_license",
			Title:        "Licença Ambiental - " + cols[1],
			Description:  cols[2],
			Severity:     LicenseSeverity(licenseType),
			State:        col(cols, 4),
			Municipality: col(cols, 5),
			EventDate:    normalize.DateOrNow(col(cols, 6)),
			Status:       domain.StatusActive,
			Valid:        true,
			Metadata: map[string]any{
				"numero_licenca": cols[0],
				"tipo_licenca":   licenseType,
				"empreendedor":   cols[1],
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[IBAMA] %d licenses normalised", len(events))
	return events, nil
}

// fetchEmbargoes reads the semicolon-delimited embargo export.
// Column layout: notice number, embargoed party, infraction, state,
// municipality, date, area (ha).
func (a *Adapter) fetchEmbargoes(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.BaseURL+"/phocadownload/embargos/embargos.csv", nil)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.Comma = ';'
	reader.LazyQuotes = true
	// The export is ragged; rows are validated per record below.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing embargo csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	// First record is the header.
	records = records[1:]
	if len(records) > a.cfg.EmbargoLimit {
		records = records[:a.cfg.EmbargoLimit]
	}

	events := make([]domain.Event, 0, len(records))
	for _, values := range records {
		if len(values) < 5 || values[0] == "" {
			logger.Warn("[IBAMA] skipping embargo line with %d fields", len(values))
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceIBAMA,
			SourceID:    "IBAMA-EMB-" + values[0],
			EventType:   "embargo",
			Title:       "Embargo - " + values[1],
			Description: "Infração: " + values[2],
			// Embargoes always halt operations.
			Severity:     domain.SeverityCritical,
			State:        col(values, 3),
			Municipality: col(values, 4),
			EventDate:    normalize.DateOrNow(col(values, 5)),
			Status:       domain.StatusActive,
			Valid:        true,
			Metadata: map[string]any{
				"numero_auto": values[0],
				"autuado":     values[1],
				"infracao":    values[2],
				"area_ha":     col(values, 6),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[IBAMA] %d embargoes normalised", len(events))
	return events, nil
}

// fetchInfractions scrapes the open-data infraction table.
// Row layout: notice number, party, description, state, municipality,
// date, fine amount.
func (a *Adapter) fetchInfractions(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.PortalURL+"/acesso-a-informacao/dados-abertos/autuacoes-ambientais", nil)
	if err != nil {
		return nil, err
	}

	doc, err := scrape.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing infraction page: %w", err)
	}

	rows := scrape.FindAll(doc, "tr", "autuacao")
	if len(rows) > a.cfg.InfractionLimit {
		rows = rows[:a.cfg.InfractionLimit]
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		cols := cellTexts(row)
		if len(cols) < 4 || cols[0] == "" {
			logger.Warn("[IBAMA] skipping infraction row with %d columns", len(cols))
			continue
		}

		ev := domain.Event{
			Source:       domain.SourceIBAMA,
			SourceID:     "IBAMA-AUT-" + cols[0],
			EventType:    "enforcement",
			Title:        "Autuação Ambiental - " + cols[1],
			Description:  cols[2],
			Severity:     domain.SeverityHigh,
			State:        col(cols, 3),
			Municipality: col(cols, 4),
			EventDate:    normalize.DateOrNow(col(cols, 5)),
			Status:       domain.StatusActive,
			Valid:        true,
			Metadata: map[string]any{
				"numero_auto": cols[0],
				"valor_multa": col(cols, 6),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[IBAMA] %d infractions normalised", len(events))
	return events, nil
}

func (a *Adapter) fetchNews(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.PortalURL+"/assuntos/noticias", nil)
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
			logger.Warn("[IBAMA] skipping news item without title")
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceIBAMA,
			SourceID:    "IBAMA-NEWS-" + normalize.ContentID("IBAMA-NEWS", title),
			EventType:   "news",
			Title:       title,
			Description: scrape.Text(scrape.Find(article, "div", "tileBody")),
			Severity:    domain.SeverityLow,
			EventDate:   normalize.DateOrNow(""),
			Status:      domain.StatusActive,
			Valid:       true,
			Metadata: map[string]any{
				"url": scrape.Attr(scrape.Find(article, "a", ""), "href"),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[IBAMA] %d news items normalised", len(events))
	return events, nil
}

// cellTexts returns the collapsed text of every td under row.
func cellTexts(row *html.Node) []string {
	cells := scrape.FindAll(row, "td", "")
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = scrape.Text(cell)
	}
	return out
}

// col returns values[i] or "" when the row is short.
func col(values []string, i int) string {
	if i >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[i])
}
