package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPayload = `{
  "quoteSummary": {
    "result": [
      {
        "incomeStatementHistory": {
          "incomeStatementHistory": [
            {
              "endDate": {"raw": 1693440000, "fmt": "2023-08-31"},
              "totalRevenue": {"raw": 1794000000, "fmt": "1.79B"}
            }
          ]
        }
      }
    ],
    "error": null
  }
}`

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("stub-crumb"))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testPayload))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRootCommandEndToEnd(t *testing.T) {
	srv := newStubServer(t)
	t.Setenv("YFIN_BASE_URL", srv.URL)
	t.Setenv("YFIN_LOG_LEVEL", "error")

	outDir := t.TempDir()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--ticker", "TICK", "--outdir", outDir})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Statements for TICK")
	assert.Contains(t, out.String(), "income_statement")

	for _, name := range []string{
		"tick_financials_all_tidy_full.csv",
		"tick_financials_all_tidy_2022_2025.csv",
		"tick_income_annual_2022_2025_tidy.csv",
		"tick_raw_income_annual.csv",
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}

func TestRootCommandConfigFile(t *testing.T) {
	srv := newStubServer(t)
	t.Setenv("YFIN_LOG_LEVEL", "error")

	outDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "yfin.yaml")
	cfgBody := "ticker: CONF\noutdir: " + outDir + "\nstart: 2022-01-01\nend: 2025-12-31\nlog_level: error\nbase_url: " + srv.URL + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	// The flag beats the config file's ticker.
	cmd.SetArgs([]string{"--config", cfgPath, "--ticker", "FLAG"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Statements for FLAG")
	_, err = os.Stat(filepath.Join(outDir, "flag_financials_all_tidy_full.csv"))
	assert.NoError(t, err)
}

func TestRootCommandFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("YFIN_BASE_URL", srv.URL)
	t.Setenv("YFIN_LOG_LEVEL", "error")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--outdir", t.TempDir()})

	err := cmd.Execute()
	require.Error(t, err)
}
