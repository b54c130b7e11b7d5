package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/net/publicsuffix"

	"github.com/melissasara-mathews/yfinance/internal/model"
)

// DefaultBaseURL is the Yahoo Finance API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// A valid browser User-Agent is required or Yahoo serves an error page.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

// statementModules are the six quoteSummary modules, one per
// statement/period combination.
var statementModules = []string{
	"incomeStatementHistory",
	"incomeStatementHistoryQuarterly",
	"balanceSheetHistory",
	"balanceSheetHistoryQuarterly",
	"cashflowStatementHistory",
	"cashflowStatementHistoryQuarterly",
}

// YahooClient fetches financial statements from the Yahoo Finance
// quoteSummary API. Requests need a session: a cookie jar plus a "crumb"
// token, obtained lazily before the first fetch.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
	crumb      string
}

// NewYahooClient creates a client against baseURL (empty means the real
// Yahoo host; tests point it at a local server).
func NewYahooClient(baseURL string, timeout time.Duration, log zerolog.Logger) (*YahooClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &YahooClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
		log:        log,
	}, nil
}

// initSession obtains the cookies and crumb Yahoo requires on data
// endpoints.
func (c *YahooClient) initSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return fmt.Errorf("building crumb request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching crumb: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return fmt.Errorf("reading crumb response: %w", err)
	}

	crumb := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || crumb == "" || strings.Contains(crumb, "Invalid") {
		return fmt.Errorf("fetching crumb: status %d, body %q", resp.StatusCode, crumb)
	}

	c.crumb = crumb
	c.log.Debug().Msg("yahoo session initialized")
	return nil
}

// Statements fetches all six statement modules for a ticker in one
// quoteSummary request and converts each into a wide table.
func (c *YahooClient) Statements(ctx context.Context, ticker string) (*StatementSet, error) {
	if c.crumb == "" {
		if err := c.initSession(ctx); err != nil {
			return nil, fmt.Errorf("initializing yahoo session: %w", err)
		}
	}

	q := url.Values{}
	q.Set("modules", strings.Join(statementModules, ","))
	q.Set("crumb", c.crumb)
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.baseURL, url.PathEscape(ticker), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building quoteSummary request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching statements for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching statements for %s: status %d", ticker, resp.StatusCode)
	}

	var decoded quoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding statements for %s: %w", ticker, err)
	}

	if e := decoded.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("quoteSummary error for %s: %s", ticker, e.Description)
	}
	if len(decoded.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quoteSummary result for %s", ticker)
	}

	r := decoded.QuoteSummary.Result[0]
	set := &StatementSet{
		IncomeAnnual:      toWide(r.IncomeAnnual.entries()),
		IncomeQuarterly:   toWide(r.IncomeQuarterly.entries()),
		BalanceAnnual:     toWide(r.BalanceAnnual.entries()),
		BalanceQuarterly:  toWide(r.BalanceQuarterly.entries()),
		CashflowAnnual:    toWide(r.CashflowAnnual.entries()),
		CashflowQuarterly: toWide(r.CashflowQuarterly.entries()),
	}

	c.log.Debug().Str("ticker", ticker).Msg("statements fetched")
	return set, nil
}

// Response shapes for the quoteSummary API.

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	IncomeAnnual      *statementHistory `json:"incomeStatementHistory"`
	IncomeQuarterly   *statementHistory `json:"incomeStatementHistoryQuarterly"`
	BalanceAnnual     *statementHistory `json:"balanceSheetHistory"`
	BalanceQuarterly  *statementHistory `json:"balanceSheetHistoryQuarterly"`
	CashflowAnnual    *statementHistory `json:"cashflowStatementHistory"`
	CashflowQuarterly *statementHistory `json:"cashflowStatementHistoryQuarterly"`
}

// statementHistory wraps the per-module statement array. The inner key
// differs per module; only one of the three fields is ever populated.
type statementHistory struct {
	Income   []statementEntry `json:"incomeStatementHistory"`
	Balance  []statementEntry `json:"balanceSheetStatements"`
	Cashflow []statementEntry `json:"cashflowStatements"`
}

func (h *statementHistory) entries() []statementEntry {
	switch {
	case h == nil:
		return nil
	case h.Income != nil:
		return h.Income
	case h.Balance != nil:
		return h.Balance
	default:
		return h.Cashflow
	}
}

// reportedValue is Yahoo's {"raw": n, "fmt": "..."} wrapper. Both fields
// are absent for figures the company did not report.
type reportedValue struct {
	Raw *json.Number `json:"raw"`
	Fmt string       `json:"fmt"`
}

// statementEntry is one reporting period: its end date plus a figure per
// line-item metric.
type statementEntry struct {
	EndDate string
	Values  map[string]decimal.NullDecimal
}

func (e *statementEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Values = make(map[string]decimal.NullDecimal, len(raw))
	for key, v := range raw {
		if key == "maxAge" {
			continue
		}

		var rv reportedValue
		if err := json.Unmarshal(v, &rv); err != nil {
			// Not a reported figure (some modules carry stray scalar
			// fields); skip it rather than fail the whole statement.
			continue
		}

		if key == "endDate" {
			e.EndDate = endDateString(rv)
			continue
		}

		if rv.Raw == nil {
			e.Values[key] = decimal.NullDecimal{}
			continue
		}
		d, err := decimal.NewFromString(rv.Raw.String())
		if err != nil {
			e.Values[key] = decimal.NullDecimal{}
			continue
		}
		e.Values[key] = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	return nil
}

// endDateString prefers the pre-formatted date and falls back to the raw
// epoch seconds.
func endDateString(rv reportedValue) string {
	if rv.Fmt != "" {
		return rv.Fmt
	}
	if rv.Raw != nil {
		if secs, err := strconv.ParseInt(rv.Raw.String(), 10, 64); err == nil {
			return time.Unix(secs, 0).UTC().Format("2006-01-02")
		}
	}
	return ""
}

// toWide converts a module's statement entries into a wide table: one
// column per reporting period (in the order Yahoo returned them, newest
// first) and one row per metric, metrics sorted for stable raw exports.
func toWide(entries []statementEntry) *model.WideStatement {
	if len(entries) == 0 {
		return nil
	}

	cols := make([]string, len(entries))
	metricSet := make(map[string]struct{})
	for i, e := range entries {
		cols[i] = e.EndDate
		for m := range e.Values {
			metricSet[m] = struct{}{}
		}
	}

	metrics := make([]string, 0, len(metricSet))
	for m := range metricSet {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	ws := &model.WideStatement{Columns: cols}
	for _, m := range metrics {
		cells := make([]decimal.NullDecimal, len(entries))
		for i, e := range entries {
			cells[i] = e.Values[m]
		}
		ws.Rows = append(ws.Rows, model.WideRow{Metric: m, Cells: cells})
	}
	return ws
}
