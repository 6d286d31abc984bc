package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/de-tools/zimport/pkg/store/artifacts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCashier struct {
	mock.Mock
}

func (m *mockCashier) FetchReportPDF(ctx context.Context, report domain.Report) ([]byte, string, error) {
	args := m.Called(ctx, report)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) CreateJournalEntry(ctx context.Context, draft domain.JournalDraft) (*domain.JournalEntry, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *mockJournal) UploadAttachment(ctx context.Context, filename string, data []byte, mimeType string, id uuid.UUID) error {
	args := m.Called(ctx, filename, data, mimeType, id)
	return args.Error(0)
}

type mockSelector struct {
	mock.Mock
}

func (m *mockSelector) Select(candidates []uint32) ([]uint32, error) {
	args := m.Called(candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint32), args.Error(1)
}

type mockPresenter struct {
	mock.Mock
}

func (m *mockPresenter) Present(records []*domain.ImportRecord) error {
	args := m.Called(records)
	return args.Error(0)
}

type mockArtifacts struct {
	mock.Mock
}

func (m *mockArtifacts) SaveFile(name string, data []byte) (string, error) {
	args := m.Called(name, data)
	return args.String(0), args.Error(1)
}

func (m *mockArtifacts) SaveRawJSON(name string, raw []byte) (string, error) {
	args := m.Called(name, raw)
	return args.String(0), args.Error(1)
}

func (m *mockArtifacts) SaveJSON(name string, v any) (string, error) {
	args := m.Called(name, v)
	return args.String(0), args.Error(1)
}

func testReport(seq uint32) domain.Report {
	return domain.Report{
		SequenceNumber:     seq,
		StoreNumber:        1,
		CashRegisterNumber: 1,
		FirstReceipt:       seq * 10,
		LastReceipt:        seq*10 + 9,
		DateCreated:        "2025-03-14T21:00:00",
		Lines: []domain.ReportLine{
			{AccountNumber: 1580, Amount: decimal.RequireFromString("100")},
			{AccountNumber: 3051, Amount: decimal.RequireFromString("-100")},
		},
		Raw: []byte(fmt.Sprintf(`{"sequenceNumber":%d}`, seq)),
	}
}

func pdfName(seq uint32) string {
	return fmt.Sprintf("Z-Rapport_556677-8899_1-1-%d.pdf", seq)
}

func bySeq(seq uint32) any {
	return mock.MatchedBy(func(r domain.Report) bool { return r.SequenceNumber == seq })
}

func byTitle(seq uint32) any {
	title := testReport(seq).Label()
	return mock.MatchedBy(func(d domain.JournalDraft) bool { return d.Title == title })
}

func created(seq uint32) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:                 uuid.New(),
		JournalEntryNumber: fmt.Sprintf("V%d", seq),
		Title:              testReport(seq).Label(),
	}
}

type fixture struct {
	cashier   *mockCashier
	journal   *mockJournal
	selector  *mockSelector
	presenter *mockPresenter
	dir       string
	out       *bytes.Buffer
	importer  *Importer
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		cashier:   new(mockCashier),
		journal:   new(mockJournal),
		selector:  new(mockSelector),
		presenter: new(mockPresenter),
		dir:       t.TempDir(),
		out:       new(bytes.Buffer),
	}
	f.importer = New(Dependencies{
		Cashier:   f.cashier,
		Journal:   f.journal,
		Artifacts: artifacts.NewStore(f.dir),
		Selector:  f.selector,
		Presenter: f.presenter,
		Output:    f.out,
	})
	f.presenter.On("Present", mock.Anything).Return(nil)
	return f
}

func (f *fixture) expectPDF(seq uint32) {
	f.cashier.On("FetchReportPDF", mock.Anything, bySeq(seq)).
		Return([]byte(fmt.Sprintf("%%PDF %d", seq)), pdfName(seq), nil).Once()
}

func records(seqs ...uint32) []*domain.ImportRecord {
	var recs []*domain.ImportRecord
	for _, seq := range seqs {
		recs = append(recs, &domain.ImportRecord{Report: testReport(seq)})
	}
	return recs
}

func TestImporter_Run_StopsBatchOnFirstFailure(t *testing.T) {
	f := newFixture(t)
	recs := records(1, 2, 3)
	first := created(1)

	f.selector.On("Select", []uint32{1, 2, 3}).Return([]uint32{1, 2, 3}, nil).Once()
	f.selector.On("Select", []uint32{2, 3}).Return([]uint32(nil), nil).Once()
	f.expectPDF(1)
	f.expectPDF(2)
	f.journal.On("CreateJournalEntry", mock.Anything, byTitle(1)).Return(first, nil).Once()
	f.journal.On("CreateJournalEntry", mock.Anything, byTitle(2)).Return(nil, errors.New("503 service unavailable")).Once()
	f.journal.On("UploadAttachment", mock.Anything, pdfName(1), []byte("%PDF 1"), "application/pdf", first.ID).Return(nil).Once()

	result, err := f.importer.Run(context.Background(), recs)

	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 1, Skipped: 0}, result)
	assert.Same(t, first, recs[0].Entry)
	assert.Nil(t, recs[1].Entry)
	assert.Nil(t, recs[2].Entry)
	f.cashier.AssertNotCalled(t, "FetchReportPDF", mock.Anything, bySeq(3))
	f.presenter.AssertNumberOfCalls(t, "Present", 2)
	f.cashier.AssertExpectations(t)
	f.journal.AssertExpectations(t)
	f.selector.AssertExpectations(t)
}

func TestImporter_Run_UploadFailureStillImports(t *testing.T) {
	f := newFixture(t)
	recs := records(5)
	entry := created(5)

	f.selector.On("Select", []uint32{5}).Return([]uint32{5}, nil).Once()
	f.expectPDF(5)
	f.journal.On("CreateJournalEntry", mock.Anything, byTitle(5)).Return(entry, nil).Once()
	f.journal.On("UploadAttachment", mock.Anything, pdfName(5), mock.Anything, "application/pdf", entry.ID).
		Return(errors.New("413 too large")).Once()

	result, err := f.importer.Run(context.Background(), recs)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.True(t, recs[0].Imported())
	f.selector.AssertNumberOfCalls(t, "Select", 1)
	f.presenter.AssertNumberOfCalls(t, "Present", 2)
}

func TestImporter_Run_NothingToImport(t *testing.T) {
	f := newFixture(t)
	recs := records(1, 2)
	recs[0].Entry = created(1)
	recs[1].Entry = created(2)

	result, err := f.importer.Run(context.Background(), recs)

	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 0, Skipped: 2}, result)
	f.selector.AssertNotCalled(t, "Select", mock.Anything)
	f.presenter.AssertNumberOfCalls(t, "Present", 1)
}

func TestImporter_Run_LoopsUntilNoneSelected(t *testing.T) {
	f := newFixture(t)
	recs := records(1, 2)
	recs[0].Entry = created(1)
	e2 := created(2)

	f.selector.On("Select", []uint32{2}).Return([]uint32{2}, nil).Once()
	f.expectPDF(2)
	f.journal.On("CreateJournalEntry", mock.Anything, byTitle(2)).Return(e2, nil).Once()
	f.journal.On("UploadAttachment", mock.Anything, pdfName(2), mock.Anything, "application/pdf", e2.ID).Return(nil).Once()

	result, err := f.importer.Run(context.Background(), recs)

	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 1, Skipped: 1}, result)
	f.presenter.AssertNumberOfCalls(t, "Present", 2)
}

func TestImporter_Run_SelectorError(t *testing.T) {
	f := newFixture(t)
	f.selector.On("Select", []uint32{1}).Return(nil, errors.New("stdin closed")).Once()

	_, err := f.importer.Run(context.Background(), records(1))

	assert.ErrorContains(t, err, "failed to read selection: stdin closed")
}

func TestImporter_ImportOne_WritesArtifacts(t *testing.T) {
	f := newFixture(t)
	rec := records(7)[0]
	entry := created(7)
	f.expectPDF(7)
	f.journal.On("CreateJournalEntry", mock.Anything, byTitle(7)).Return(entry, nil).Once()
	f.journal.On("UploadAttachment", mock.Anything, pdfName(7), []byte("%PDF 7"), "application/pdf", entry.ID).Return(nil).Once()

	got, err := f.importer.ImportOne(context.Background(), rec)
	require.NoError(t, err)
	assert.Same(t, entry, got)

	pdf, err := os.ReadFile(filepath.Join(f.dir, pdfName(7)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF 7", string(pdf))

	raw, err := os.ReadFile(filepath.Join(f.dir, "Z-Rapport_556677-8899_1-1-7.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"sequenceNumber":7}`, string(raw))

	request, err := os.ReadFile(filepath.Join(f.dir, "Z-Rapport_556677-8899_1-1-7_bokio.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": "Z, Bu: 1 Ka: 1 Nr: 7 Kv: 70 - 79",
		"date": "2025-03-14",
		"items": [
			{"account": 1580, "debit": 100, "credit": 0},
			{"account": 3051, "debit": 0, "credit": 100}
		]
	}`, string(request))

	assert.Contains(t, f.out.String(), "Importing Z-report 7 ...")
	assert.Contains(t, f.out.String(), "* Booking Z-report 7... V7")
}

func TestImporter_ImportOne_PDFFailure(t *testing.T) {
	f := newFixture(t)
	f.cashier.On("FetchReportPDF", mock.Anything, bySeq(3)).Return(nil, "", errors.New("timeout")).Once()

	_, err := f.importer.ImportOne(context.Background(), records(3)[0])

	assert.ErrorIs(t, err, domain.ErrPDFFetch)
	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, uint32(3), importErr.Sequence)
	f.journal.AssertNotCalled(t, "CreateJournalEntry", mock.Anything, mock.Anything)
	entries, _ := os.ReadDir(f.dir)
	assert.Empty(t, entries)
}

func TestImporter_ImportOne_CreateFailure(t *testing.T) {
	f := newFixture(t)
	f.expectPDF(4)
	f.journal.On("CreateJournalEntry", mock.Anything, byTitle(4)).Return(nil, errors.New("400 bad request")).Once()

	_, err := f.importer.ImportOne(context.Background(), records(4)[0])

	assert.ErrorIs(t, err, domain.ErrJournalCreate)
	assert.ErrorContains(t, err, "z-report 4")
	f.journal.AssertNotCalled(t, "UploadAttachment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImporter_Run_ArtifactWriteFailureIsFatal(t *testing.T) {
	cashier := new(mockCashier)
	journal := new(mockJournal)
	selector := new(mockSelector)
	presenter := new(mockPresenter)
	store := new(mockArtifacts)
	imp := New(Dependencies{
		Cashier:   cashier,
		Journal:   journal,
		Artifacts: store,
		Selector:  selector,
		Presenter: presenter,
		Output:    new(bytes.Buffer),
	})

	presenter.On("Present", mock.Anything).Return(nil)
	selector.On("Select", []uint32{1, 2}).Return([]uint32{1, 2}, nil).Once()
	cashier.On("FetchReportPDF", mock.Anything, bySeq(1)).Return([]byte("%PDF"), pdfName(1), nil).Once()
	store.On("SaveFile", pdfName(1), []byte("%PDF")).
		Return("", fmt.Errorf("%w: no space left on device", domain.ErrArtifactWrite)).Once()

	_, err := imp.Run(context.Background(), records(1, 2))

	assert.ErrorIs(t, err, domain.ErrArtifactWrite)
	presenter.AssertNumberOfCalls(t, "Present", 1)
	journal.AssertNotCalled(t, "CreateJournalEntry", mock.Anything, mock.Anything)
	cashier.AssertNotCalled(t, "FetchReportPDF", mock.Anything, bySeq(2))
}
