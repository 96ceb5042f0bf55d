// Package sec ingests events from the US Securities and Exchange
// Commission: EDGAR filings for monitored mining issuers and
// enforcement actions against mining companies.
package sec

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
	"github.com/vigia-labs/radar-cli/internal/logger"
	"github.com/vigia-labs/radar-cli/internal/sources/fetch"
	"github.com/vigia-labs/radar-cli/internal/sources/normalize"
	"github.com/vigia-labs/radar-cli/internal/sources/scrape"
)

// Default fetch targets and limits.
const (
	DefaultEdgarURL = "https://www.sec.gov/cgi-bin/browse-edgar"
	DefaultPressURL = "https://www.sec.gov/news/pressreleases"

	// DefaultEdgarRate throttles EDGAR requests per its fair-use policy.
	DefaultEdgarRate = 2.0

	DefaultFilingLimit  = 20
	DefaultReleaseLimit = 50

	// tickersPerRun bounds the EDGAR round-trips a single run makes.
	tickersPerRun = 5
)

// DefaultTickers are the monitored mining issuers, in priority order.
var DefaultTickers = []string{
	"FCMX", "NEM", "GOLD", "AEM", "KGC", "BTG", "PAAS", "HL", "CDE", "AG",
}

// miningKeywords filter enforcement releases down to the sector.
var miningKeywords = []string{"mining", "mineral", "gold", "silver", "copper"}

var _ driven.SourceAdapter = (*Adapter)(nil)

// Config holds the adapter's fetch targets. Zero values take defaults.
type Config struct {
	EdgarURL string
	PressURL string
	Tickers  []string

	FilingLimit  int
	ReleaseLimit int

	Client *fetch.Client
}

// Adapter fetches and normalises SEC records.
type Adapter struct {
	cfg    Config
	client *fetch.Client
}

// New creates a SEC adapter. The default client is rate limited to
// stay inside EDGAR's fair-use policy.
func New(cfg Config) *Adapter {
	if cfg.EdgarURL == "" {
		cfg.EdgarURL = DefaultEdgarURL
	}
	if cfg.PressURL == "" {
		cfg.PressURL = DefaultPressURL
	}
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = DefaultTickers
	}
	if cfg.FilingLimit == 0 {
		cfg.FilingLimit = DefaultFilingLimit
	}
	if cfg.ReleaseLimit == 0 {
		cfg.ReleaseLimit = DefaultReleaseLimit
	}
	if cfg.Client == nil {
		cfg.Client = fetch.NewClient(fetch.WithRateLimit(DefaultEdgarRate))
	}
	return &Adapter{cfg: cfg, client: cfg.Client}
}

// Source returns the SEC source code.
func (a *Adapter) Source() domain.SourceCode {
	return domain.SourceSEC
}

// FetchAll fetches filings for a rotation of monitored tickers plus
// mining-sector enforcement releases.
func (a *Adapter) FetchAll(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event

	tickers := a.cfg.Tickers
	if len(tickers) > tickersPerRun {
		tickers = tickers[:tickersPerRun]
	}

	for _, ticker := range tickers {
		filings, err := a.fetchFilings(ctx, ticker)
		if err != nil {
			return nil, fmt.Errorf("sec filings for %s: %w", ticker, err)
		}
		events = append(events, filings...)
	}

	enforcement, err := a.fetchEnforcement(ctx)
	if err != nil {
		return nil, fmt.Errorf("sec enforcement: %w", err)
	}
	events = append(events, enforcement...)

	logger.Info("[SEC] collected %d events", len(events))
	return events, nil
}

// atomFeed is the subset of the EDGAR Atom schema the adapter reads.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string `xml:"title"`
	Updated string `xml:"updated"`
	Summary string `xml:"summary"`
	Link    struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
	Category struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

func (a *Adapter) fetchFilings(ctx context.Context, ticker string) ([]domain.Event, error) {
	params := url.Values{
		"action":  {"getcompany"},
		"company": {ticker},
		"type":    {"8-K"},
		"output":  {"atom"},
		"count":   {fmt.Sprintf("%d", a.cfg.FilingLimit)},
	}

	body, err := a.client.Get(ctx, a.cfg.EdgarURL, params)
	if err != nil {
		return nil, err
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decoding atom feed for %s: %w", ticker, err)
	}

	entries := feed.Entries
	if len(entries) > a.cfg.FilingLimit {
		entries = entries[:a.cfg.FilingLimit]
	}

	events := make([]domain.Event, 0, len(entries))
	for _, entry := range entries {
		if entry.Title == "" {
			logger.Warn("[SEC] skipping filing entry without title for %s", ticker)
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceSEC,
			SourceID:    "SEC-" + ticker + "-" + normalize.ContentID("SEC", ticker, entry.Title, entry.Updated),
			EventType:   "regulatory_filing",
			Title:       entry.Title,
			Description: normalize.CollapseSpace(entry.Summary),
			Severity:    FilingSeverity(entry.Title),
			EventDate:   normalize.DateOrNow(entry.Updated),
			Status:      domain.StatusActive,
			Valid:       true,
			Metadata: map[string]any{
				"ticker":      ticker,
				"filing_type": entry.Category.Term,
				"url":         entry.Link.Href,
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[SEC] %d filings normalised for %s", len(events), ticker)
	return events, nil
}

// fetchEnforcement scrapes the press release table and keeps the
// releases that mention the mining sector.
func (a *Adapter) fetchEnforcement(ctx context.Context) ([]domain.Event, error) {
	body, err := a.client.Get(ctx, a.cfg.PressURL, nil)
	if err != nil {
		return nil, err
	}

	doc, err := scrape.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing press release page: %w", err)
	}

	rows := scrape.FindAll(doc, "tr", "release")
	if len(rows) > a.cfg.ReleaseLimit {
		rows = rows[:a.cfg.ReleaseLimit]
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		title := scrape.Text(scrape.Find(row, "a", ""))
		if title == "" {
			logger.Warn("[SEC] skipping release row without title")
			continue
		}
		if !mentionsMining(title) {
			continue
		}

		ev := domain.Event{
			Source:      domain.SourceSEC,
			SourceID:    "SEC-ENF-" + normalize.ContentID("SEC-ENF", title),
			EventType:   "enforcement",
			Title:       title,
			Description: "SEC enforcement action in the mining sector",
			Severity:    domain.SeverityCritical,
			EventDate:   normalize.DateOrNow(scrape.Text(scrape.Find(row, "time", ""))),
			Status:      domain.StatusActive,
			Valid:       true,
			Metadata: map[string]any{
				"url": scrape.Attr(scrape.Find(row, "a", ""), "href"),
			},
		}
		events = append(events, ev)
	}
	logger.Debug("[SEC] %d enforcement releases normalised", len(events))
	return events, nil
}

func mentionsMining(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range miningKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
