package geonames

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/hcsolakoglu/country-list-updated-weekly/internal/countries"
	"github.com/hcsolakoglu/country-list-updated-weekly/lib/retryutil"
	"github.com/hcsolakoglu/country-list-updated-weekly/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) string {
	raw, err := os.ReadFile("testdata/countries.html")
	require.NoError(t, err)
	return string(raw)
}

func testPolicy(attempts int) retryutil.Policy {
	return retryutil.Policy{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond * 10,
	}
}

func TestExtract(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/geonames")
	defer cleanup()

	records, err := Extract(context.Background(), fixture(t))
	require.NoError(t, err)
	require.Equal(
		t,
		[]string{"US", "FR", "CI", "AX", "AQ", "DE"},
		countries.Codes(records),
	)

	us := records[0]
	require.Equal(t, "United States", us.Name())
	require.Equal(t, "USA", us[countries.FieldIsoAlpha3])
	require.Equal(t, "840", us[countries.FieldIsoNumeric])
	require.Equal(t, "Washington", us[countries.FieldCapital])
	require.Equal(t, float64(9629091), us[countries.FieldAreaKm2])
	require.Equal(t, float64(327167434), us[countries.FieldPopulation])
	require.Equal(t, "NA", us[countries.FieldContinent])

	ci := records[2]
	require.Equal(t, "Côte d'Ivoire", ci.Name())

	// empty cells are omitted, not stored as empty strings
	ax := records[3]
	_, hasFips := ax[countries.FieldFips]
	require.False(t, hasFips)

	// codes come out canonical regardless of the page's casing
	aq := records[4]
	require.Equal(t, "AQ", aq.Code())
	require.Equal(t, "ATA", aq[countries.FieldIsoAlpha3])

	require.NoError(t, countries.Validate(records, len(records)))
}

func TestExtractMissingTable(t *testing.T) {
	_, err := Extract(context.Background(), "<html><body><p>no table here</p></body></html>")
	require.Error(t, err)

	var eerr *ExtractionError
	require.ErrorAs(t, err, &eerr)
	require.Contains(t, eerr.Reason, "table not found")
}

func TestExtractMissingColumn(t *testing.T) {
	html := `<table id="countries">
		<tr><th>ISO-3166<br>alpha2</th><th>Country</th></tr>
		<tr><td>US</td><td>United States</td></tr>
	</table>`

	_, err := Extract(context.Background(), html)
	require.Error(t, err)

	var eerr *ExtractionError
	require.ErrorAs(t, err, &eerr)
	require.Contains(t, eerr.Reason, "column")
}

func TestExtractMalformedDataRow(t *testing.T) {
	html := `<table id="countries">
		<tr>
			<th>ISO-3166<br>alpha2</th><th>ISO-3166<br>alpha3</th>
			<th>ISO-3166<br>numeric</th><th>Country</th><th>Continent</th>
		</tr>
		<tr><td>US</td><td>USA</td><td>840</td><td>United States</td><td>NA</td></tr>
		<tr><td>FR</td><td>FRA</td><td>250</td><td></td><td>EU</td></tr>
	</table>`

	_, err := Extract(context.Background(), html)
	require.Error(t, err)

	var eerr *ExtractionError
	require.ErrorAs(t, err, &eerr)
	require.Equal(t, 2, eerr.Row)
}

func TestExtractNoDataRows(t *testing.T) {
	html := `<table id="countries">
		<tr>
			<th>ISO-3166<br>alpha2</th><th>ISO-3166<br>alpha3</th>
			<th>ISO-3166<br>numeric</th><th>Country</th><th>Continent</th>
		</tr>
	</table>`

	_, err := Extract(context.Background(), html)
	require.Error(t, err)

	var eerr *ExtractionError
	require.ErrorAs(t, err, &eerr)
	require.Contains(t, eerr.Reason, "no data rows")
}

func TestExtractKeepsUnparseableNumbersForValidation(t *testing.T) {
	html := `<table id="countries">
		<tr>
			<th>ISO-3166<br>alpha2</th><th>ISO-3166<br>alpha3</th>
			<th>ISO-3166<br>numeric</th><th>Country</th>
			<th>Population</th><th>Continent</th>
		</tr>
		<tr>
			<td>US</td><td>USA</td><td>840</td>
			<td>United States</td><td>unknown</td><td>NA</td>
		</tr>
	</table>`

	records, err := Extract(context.Background(), html)
	require.NoError(t, err)
	require.Equal(t, "unknown", records[0][countries.FieldPopulation])

	err = countries.Validate(records, 0)
	require.Error(t, err)

	var verr countries.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, countries.ReasonTypeMismatch, verr.Reason)
}

func TestFetch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/geonames")
	defer cleanup()

	html := fixture(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{URL: server.URL, Retry: testPolicy(3)})
	got, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, html, got)
}

func TestFetchSendsBrowserIdentity(t *testing.T) {
	var ua string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{URL: server.URL, Retry: testPolicy(1)})
	_, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Contains(t, ua, "Mozilla/5.0")
}

func TestFetchRetriesServerErrors(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{URL: server.URL, Retry: testPolicy(5)})
	got, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "recovered", got)
	require.Equal(t, 3, requests)
}

func TestFetchExhaustsRetries(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{URL: server.URL, Retry: testPolicy(3)})
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	require.Equal(t, 3, requests)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, 3, ferr.Attempts)
}

func TestFetchDoesNotRetryNotFound(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{URL: server.URL, Retry: testPolicy(5)})
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, requests)

	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
}
