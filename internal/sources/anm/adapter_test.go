package anm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

const processesJSON = `{
  "data": [
    {
      "numero_processo": "48054.810001/2025-19",
      "fase": "Licenciamento",
      "objeto": "Lavra de areia",
      "uf": "MG",
      "municipio": "Ouro Preto",
      "data_protocolo": "2025-02-10",
      "substancia": "Areia",
      "area_ha": 49.8,
      "titular": "Mineração Alfa Ltda",
      "latitude": -20.38,
      "longitude": -43.5
    },
    {
      "numero_processo": "",
      "fase": "Requerimento",
      "objeto": "registro sem número"
    },
    {
      "numero_processo": "48054.810002/2025-55",
      "fase": "Embargo",
      "objeto": "Extração irregular"
    }
  ]
}`

const infractionsJSON = `{
  "data": [
    {
      "numero_auto": "AUT-2025-0042",
      "infracao": "Lavra sem licença",
      "descricao_infracao": "Extração de minério sem título",
      "valor_multa": 150000.0,
      "empresa": "Mineradora Beta",
      "uf": "PA",
      "data_autuacao": "15/01/2025"
    }
  ]
}`

const newsHTML = `
<html><body>
  <article class="tile-item">
    <h2 class="tile-title">ANM publica nova resolução</h2>
    <p class="tile-description">Resolução sobre barragens</p>
    <span class="tile-date">10/02/2025</span>
    <a href="/noticias/resolucao">link</a>
  </article>
  <article class="tile-item"><p class="tile-description">sem título</p></article>
</body></html>`

func newTestAdapter(t *testing.T) (*Adapter, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/processos", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(processesJSON))
	})
	mux.HandleFunc("/api/fiscalizacao/autuacoes", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(infractionsJSON))
	})
	mux.HandleFunc("/portal/assuntos/noticias", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(newsHTML))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	adapter := New(Config{
		BaseURL: server.URL + "/portal",
		APIURL:  server.URL + "/api",
	})
	return adapter, server
}

func TestFetchAll(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	events, err := adapter.FetchAll(context.Background())
	require.NoError(t, err)

	// 2 valid processes + 1 infraction + 1 news item; the process
	// without a number and the news item without a title are skipped.
	require.Len(t, events, 4)

	byID := map[string]domain.Event{}
	for _, ev := range events {
		assert.Equal(t, domain.SourceANM, ev.Source)
		assert.True(t, ev.Valid)
		assert.Equal(t, domain.StatusActive, ev.Status)
		byID[ev.SourceID] = ev
	}

	process := byID["48054.810001/2025-19"]
	assert.Equal(t, "processo_minerario", process.EventType)
	assert.Equal(t, "Processo 48054.810001/2025-19 - Licenciamento", process.Title)
	assert.Equal(t, domain.SeverityMedium, process.Severity)
	assert.Equal(t, "MG", process.State)
	assert.Equal(t, "Ouro Preto", process.Municipality)
	require.NotNil(t, process.Location)
	assert.Equal(t, -43.5, process.Location.Longitude)
	assert.Equal(t, -20.38, process.Location.Latitude)
	assert.Equal(t, "Areia", process.Metadata["substancia"])

	embargoed := byID["48054.810002/2025-55"]
	assert.Equal(t, domain.SeverityCritical, embargoed.Severity)
	assert.Nil(t, embargoed.Location)

	infraction := byID["AUT-2025-0042"]
	assert.Equal(t, "autuacao", infraction.EventType)
	assert.Equal(t, domain.SeverityHigh, infraction.Severity)
	assert.Equal(t, 2025, infraction.EventDate.Year())
}

func TestFetchAllNewsIDStable(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	first, err := adapter.FetchAll(context.Background())
	require.NoError(t, err)
	second, err := adapter.FetchAll(context.Background())
	require.NoError(t, err)

	ids := func(events []domain.Event) []string {
		var out []string
		for _, ev := range events {
			out = append(out, ev.SourceID)
		}
		return out
	}
	assert.Equal(t, ids(first), ids(second),
		"synthesized ids must not change between runs over unchanged content")
}

func TestFetchAllTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := New(Config{BaseURL: server.URL, APIURL: server.URL})
	events, err := adapter.FetchAll(context.Background())

	require.Error(t, err)
	assert.Nil(t, events)
}

func TestSourceCode(t *testing.T) {
	assert.Equal(t, domain.SourceANM, New(Config{}).Source())
}
