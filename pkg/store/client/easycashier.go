package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/de-tools/zimport/pkg/adapters"
	"github.com/de-tools/zimport/pkg/models/api"
	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	EasyCashierURL = "https://backoffice.easycashier.se"

	// ReportPageSize is the number of reports requested per page.
	ReportPageSize = 100
)

// EasyCashier is a logged in session against the cashier back office.
type EasyCashier struct {
	baseURL    string
	company    string
	token      string
	httpClient *http.Client
}

// LoginEasyCashier authenticates and resolves the organization to work on.
// An explicit company wins over the account's preferred one.
func LoginEasyCashier(ctx context.Context, httpClient *http.Client, baseURL, username, password, company string) (*EasyCashier, error) {
	logger := zerolog.Ctx(ctx)
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	baseURL = strings.TrimRight(baseURL, "/")

	payload, err := json.Marshal(api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/login", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Accept", ApplicationJSON)
	req.Header.Set("Content-Type", ApplicationJSON)
	req.Header.Set("User-Agent", DefaultUserAgent)

	var res api.LoginResponse
	if err := doJSON(ctx, httpClient, req, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
	}

	if res.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in login response", domain.ErrAuthentication)
	}
	if company == "" {
		company = res.PreferredCorporateIdentity
	}
	if company == "" {
		return nil, fmt.Errorf("%w: no company given and no preferred company on the account", domain.ErrAuthentication)
	}

	logger.Debug().Str("company", company).Msg("logged in to easycashier")

	return &EasyCashier{
		baseURL:    baseURL,
		company:    company,
		token:      res.AccessToken,
		httpClient: httpClient,
	}, nil
}

// Company returns the organization the session is scoped to.
func (c *EasyCashier) Company() string {
	return c.company
}

func (c *EasyCashier) newRequest(ctx context.Context, path string, query url.Values, accept string) (*http.Request, error) {
	u := fmt.Sprintf("%s/v1/company/%s%s", c.baseURL, url.PathEscape(c.company), path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("X-Auth-Token", c.token)
	return req, nil
}

// ListReports fetches one page of Z-reports for the date range.
func (c *EasyCashier) ListReports(ctx context.Context, dates domain.DateRange, page domain.PageRequest) (*domain.ReportPage, error) {
	query := url.Values{}
	query.Set("itemsPerPage", strconv.FormatUint(uint64(page.Size), 10))
	query.Set("pageNumber", strconv.FormatUint(uint64(page.Page), 10))
	query.Set("sortColumn", "sequenceNumber")
	query.Set("sortDirection", "asc")
	query.Set("dateSelectionType", string(dates.Type))
	query.Set("startDate", domain.FormatDate(dates.Start))
	query.Set("stopDate", domain.FormatDate(dates.End))

	req, err := c.newRequest(ctx, "/zReport", query, ApplicationJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create z-report list request: %w", err)
	}

	var res api.ZReportListResponse
	if err := doJSON(ctx, c.httpClient, req, &res); err != nil {
		return nil, fmt.Errorf("failed to list z-reports (page %d): %w", page.Page, err)
	}

	return adapters.MapAPIZReportPageToDomain(res)
}

// ListAllReports walks the pages in order until an empty page is returned or
// the last page has been read.
func (c *EasyCashier) ListAllReports(ctx context.Context, dates domain.DateRange) ([]domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	page := domain.PageRequest{Page: 1, Size: ReportPageSize}
	var reports []domain.Report
	for {
		res, err := c.ListReports(ctx, dates, page)
		if err != nil {
			return nil, err
		}
		if len(res.Items) == 0 {
			break
		}

		logger.Debug().
			Uint32("page", page.Page).
			Uint32("total_pages", res.TotalPages).
			Int("items", len(res.Items)).
			Msg("fetched z-report page")
		reports = append(reports, res.Items...)

		if page.Page >= res.TotalPages {
			break
		}
		page.Page++
	}
	return reports, nil
}

// ReportPDFName is the file name a report's PDF is archived under.
func ReportPDFName(company string, report domain.Report) string {
	return fmt.Sprintf("Z-Rapport_%s_%d-%d-%d.pdf",
		company, report.StoreNumber, report.CashRegisterNumber, report.SequenceNumber)
}

// FetchReportPDF downloads the PDF rendition of a report.
func (c *EasyCashier) FetchReportPDF(ctx context.Context, report domain.Report) ([]byte, string, error) {
	path := fmt.Sprintf("/zReport/%d/%d/%d/pdf", report.StoreNumber, report.CashRegisterNumber, report.SequenceNumber)

	req, err := c.newRequest(ctx, path, nil, ApplicationPDF)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create pdf request: %w", err)
	}

	pdf, err := do(ctx, c.httpClient, req)
	if err != nil {
		return nil, "", err
	}

	return pdf, ReportPDFName(c.company, report), nil
}
