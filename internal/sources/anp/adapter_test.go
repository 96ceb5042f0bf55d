package anp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

const roundsHTML = `
<html><body>
  <div class="tile-content">
    <h2>5º Ciclo da Oferta Permanente</h2>
    <p>Blocos exploratórios nas bacias de Campos e Santos</p>
    <span class="date">2025-03-15</span>
    <a href="/rodadas/ciclo-5">detalhes</a>
  </div>
  <div class="tile-content"><p>sem título</p></div>
</body></html>`

const datastoreJSON = `{
  "success": true,
  "result": {
    "records": [
      {
        "numero_contrato": "48610.012345/2024-01",
        "bloco": "BM-S-50",
        "bacia": "Santos",
        "operador": "Petrobras",
        "uf": "SP",
        "fase": "Produção",
        "data_assinatura": "2024-06-10"
      },
      {"numero_contrato": "", "bloco": "sem contrato"}
    ]
  }
}`

const newsHTML = `
<html><body>
  <article class="tileItem">
    <h2>ANP divulga resultado do leilão</h2>
    <div class="tileBody">Arrecadação recorde em bônus de assinatura</div>
    <a href="/noticias/leilao">link</a>
  </article>
</body></html>`

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/portal/rodadas-anp", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(roundsHTML))
	})
	mux.HandleFunc("/data/datastore_search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ConcessionsResourceID, r.URL.Query().Get("resource_id"))
		_, _ = w.Write([]byte(datastoreJSON))
	})
	mux.HandleFunc("/portal/canais_atendimento/imprensa/noticias-comunicados", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(newsHTML))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return New(Config{
		BaseURL: server.URL + "/portal",
		DataURL: server.URL + "/data",
	})
}

func TestFetchAll(t *testing.T) {
	adapter := newTestAdapter(t)

	events, err := adapter.FetchAll(context.Background())
	require.NoError(t, err)

	// 1 round + 1 concession + 1 news item; the tile without a title and
	// the record without a contract number are skipped.
	require.Len(t, events, 3)

	byType := map[string]domain.Event{}
	for _, ev := range events {
		assert.Equal(t, domain.SourceANP, ev.Source)
		assert.True(t, ev.Valid)
		byType[ev.EventType] = ev
	}

	round := byType["bidding_round"]
	assert.Equal(t, "5º Ciclo da Oferta Permanente", round.Title)
	assert.Equal(t, domain.SeverityHigh, round.Severity)
	assert.Equal(t, 2025, round.EventDate.Year())

	concession := byType["concession"]
	assert.Equal(t, "ANP-CON-48610.012345/2024-01", concession.SourceID)
	assert.Equal(t, domain.SeverityMedium, concession.Severity)
	assert.Equal(t, "SP", concession.State)
	assert.Equal(t, "Santos", concession.Metadata["bacia"])

	news := byType["news"]
	assert.Equal(t, domain.SeverityLow, news.Severity)
}

func TestFetchAllTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := New(Config{BaseURL: server.URL, DataURL: server.URL})
	events, err := adapter.FetchAll(context.Background())

	require.Error(t, err)
	assert.Nil(t, events)
}

func TestSourceCode(t *testing.T) {
	assert.Equal(t, domain.SourceANP, New(Config{}).Source())
}
