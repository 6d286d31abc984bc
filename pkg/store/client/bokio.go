package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/zimport/pkg/adapters"
	"github.com/de-tools/zimport/pkg/models/api"
	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	BokioAPIURL = "https://api.bokio.se"

	// JournalPageSize is the number of journal entries requested per page.
	JournalPageSize = 100
)

// Bokio talks to the bookkeeping API of one company.
type Bokio struct {
	baseURL    string
	companyID  string
	token      string
	httpClient *http.Client
}

func NewBokio(httpClient *http.Client, baseURL, companyID, token string) *Bokio {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &Bokio{
		baseURL:    strings.TrimRight(baseURL, "/"),
		companyID:  companyID,
		token:      token,
		httpClient: httpClient,
	}
}

func (b *Bokio) endpoint(path string) string {
	return fmt.Sprintf("%s/v1/companies/%s%s", b.baseURL, url.PathEscape(b.companyID), path)
}

func (b *Bokio) authorize(req *http.Request) {
	req.Header.Set("Accept", ApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+b.token)
}

// ListJournalEntries returns all journal entries dated within [start, end].
// A nil bound leaves that side open.
func (b *Bokio) ListJournalEntries(ctx context.Context, start, end *time.Time) ([]domain.JournalEntry, error) {
	logger := zerolog.Ctx(ctx)

	var filters []string
	if start != nil {
		filters = append(filters, "date>="+domain.FormatDate(*start))
	}
	if end != nil {
		filters = append(filters, "date<="+domain.FormatDate(*end))
	}

	var entries []domain.JournalEntry
	for page := uint32(1); ; page++ {
		query := url.Values{}
		query.Set("page", strconv.FormatUint(uint64(page), 10))
		query.Set("pageSize", strconv.Itoa(JournalPageSize))
		if len(filters) > 0 {
			query.Set("query", strings.Join(filters, "&&"))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint("/journal-entries")+"?"+query.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create journal list request: %w", err)
		}
		b.authorize(req)

		var res api.JournalEntryListResponse
		if err := doJSON(ctx, b.httpClient, req, &res); err != nil {
			return nil, fmt.Errorf("failed to list journal entries (page %d): %w", page, err)
		}
		if len(res.Items) == 0 {
			break
		}

		for _, item := range res.Items {
			entries = append(entries, adapters.MapAPIJournalEntryToDomain(item))
		}
		logger.Debug().Uint32("page", page).Int("items", len(res.Items)).Msg("fetched journal page")

		if page >= res.TotalPages {
			break
		}
	}
	return entries, nil
}

// CreateJournalEntry books the draft and returns the created entry.
func (b *Bokio) CreateJournalEntry(ctx context.Context, draft domain.JournalDraft) (*domain.JournalEntry, error) {
	payload, err := json.Marshal(adapters.MapDomainJournalDraftToAPI(draft))
	if err != nil {
		return nil, fmt.Errorf("failed to encode journal entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint("/journal-entries"), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create journal entry request: %w", err)
	}
	b.authorize(req)
	req.Header.Set("Content-Type", ApplicationJSON)

	var res api.JournalEntry
	if err := doJSON(ctx, b.httpClient, req, &res); err != nil {
		return nil, err
	}

	entry := adapters.MapAPIJournalEntryToDomain(res)
	return &entry, nil
}

// UploadAttachment attaches a file to an existing journal entry.
func (b *Bokio) UploadAttachment(ctx context.Context, filename string, data []byte, mimeType string, journalEntryID uuid.UUID) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write file part: %w", err)
	}
	if err := w.WriteField("description", filename); err != nil {
		return fmt.Errorf("failed to write description: %w", err)
	}
	if err := w.WriteField("journalEntryId", journalEntryID.String()); err != nil {
		return fmt.Errorf("failed to write journal entry id: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint("/uploads"), &body)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	b.authorize(req)
	req.Header.Set("Content-Type", w.FormDataContentType())

	res, err := do(ctx, b.httpClient, req)
	if err != nil {
		return err
	}

	var upload api.Upload
	if len(bytes.TrimSpace(res)) > 0 && json.Unmarshal(res, &upload) == nil {
		zerolog.Ctx(ctx).Debug().Str("upload_id", upload.ID.String()).Msg("attachment uploaded")
	}
	return nil
}
