package adapters

import (
	"github.com/de-tools/zimport/pkg/models/api"
	"github.com/de-tools/zimport/pkg/models/domain"
	"github.com/google/uuid"
)

func MapAPIJournalEntryToDomain(entry api.JournalEntry) domain.JournalEntry {
	var reversedBy *uuid.UUID
	if entry.ReversedByJournalEntryID != nil {
		id := *entry.ReversedByJournalEntryID
		reversedBy = &id
	}

	return domain.JournalEntry{
		ID:                 entry.ID,
		JournalEntryNumber: entry.JournalEntryNumber,
		Title:              entry.Title,
		Date:               entry.Date,
		ReversedBy:         reversedBy,
	}
}

func MapDomainJournalDraftToAPI(draft domain.JournalDraft) api.CreateJournalEntryRequest {
	items := make([]api.JournalEntryItem, 0, len(draft.Postings))
	for _, p := range draft.Postings {
		items = append(items, api.JournalEntryItem{
			Account: p.Account,
			Debit:   api.Amount(p.Debit),
			Credit:  api.Amount(p.Credit),
		})
	}

	return api.CreateJournalEntryRequest{
		Title: draft.Title,
		Date:  draft.Date,
		Items: items,
	}
}
