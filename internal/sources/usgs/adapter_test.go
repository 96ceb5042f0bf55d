package usgs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

const quakesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "id": "us7000abcd",
      "properties": {
        "mag": 6.4,
        "place": "120 km W of Iquique, Chile",
        "time": 1739500000000,
        "url": "https://earthquake.usgs.gov/earthquakes/eventpage/us7000abcd",
        "type": "earthquake"
      },
      "geometry": {"coordinates": [-70.9, -20.2, 35.0]}
    },
    {
      "id": "",
      "properties": {"mag": 4.2, "place": "no id", "time": 1739500000000}
    }
  ]
}`

const publicationsHTML = `
<html><body>
  <div class="publication-item">
    <h3>Mineral Commodity Summaries 2025</h3>
    <p>Annual report on domestic and global mineral production</p>
    <span class="date">2025-01-31</span>
    <a href="/publications/mcs-2025">link</a>
  </div>
  <div class="publication-item"><p>no title</p></div>
</body></html>`

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/fdsnws/query", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "geojson", r.URL.Query().Get("format"))
		assert.Equal(t, "4.0", r.URL.Query().Get("minmagnitude"))
		_, _ = w.Write([]byte(quakesGeoJSON))
	})
	mux.HandleFunc("/nmic/publications", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(publicationsHTML))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return New(Config{
		QuakeURL: server.URL + "/fdsnws",
		PubsURL:  server.URL + "/nmic",
	})
}

func TestFetchAll(t *testing.T) {
	adapter := newTestAdapter(t)

	events, err := adapter.FetchAll(context.Background())
	require.NoError(t, err)

	// 1 earthquake + 1 publication; the feature without an id and the
	// item without a title are skipped.
	require.Len(t, events, 2)

	quake := events[0]
	assert.Equal(t, domain.SourceUSGS, quake.Source)
	assert.Equal(t, "USGS-EQ-us7000abcd", quake.SourceID)
	assert.Equal(t, "earthquake", quake.EventType)
	assert.Equal(t, "M6.4 - 120 km W of Iquique, Chile", quake.Title)
	assert.Equal(t, domain.SeverityHigh, quake.Severity)
	assert.Equal(t, time.UnixMilli(1739500000000).UTC(), quake.EventDate)
	require.NotNil(t, quake.Location)
	assert.Equal(t, -70.9, quake.Location.Longitude)
	assert.Equal(t, -20.2, quake.Location.Latitude)
	assert.Equal(t, 6.4, quake.Metadata["magnitude"])

	report := events[1]
	assert.Equal(t, "mineral_report", report.EventType)
	assert.Equal(t, "Mineral Commodity Summaries 2025", report.Title)
	assert.Equal(t, domain.SeverityLow, report.Severity)
}

func TestFetchAllTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	adapter := New(Config{QuakeURL: server.URL, PubsURL: server.URL})
	events, err := adapter.FetchAll(context.Background())

	require.Error(t, err)
	assert.Nil(t, events)
}

func TestSourceCode(t *testing.T) {
	assert.Equal(t, domain.SourceUSGS, New(Config{}).Source())
}
