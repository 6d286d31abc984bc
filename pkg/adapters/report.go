package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/zimport/pkg/models/api"
	"github.com/de-tools/zimport/pkg/models/domain"
)

func MapAPIZReportToDomainReport(raw json.RawMessage) (domain.Report, error) {
	var z api.ZReport
	if err := json.Unmarshal(raw, &z); err != nil {
		return domain.Report{}, fmt.Errorf("failed to decode z-report: %w", err)
	}

	lines := make([]domain.ReportLine, 0, len(z.ZReportTransactions))
	for _, tr := range z.ZReportTransactions {
		lines = append(lines, domain.ReportLine{
			AccountNumber: tr.AccountNumber,
			Amount:        tr.Amount,
		})
	}

	return domain.Report{
		SequenceNumber:     z.SequenceNumber,
		StoreNumber:        z.StoreNumber,
		CashRegisterNumber: z.CashRegisterNumber,
		FirstReceipt:       z.FirstReceipt,
		LastReceipt:        z.LastReceipt,
		DateCreated:        z.DateCreated,
		CompanyName:        z.CompanyName,
		CorporateIdentity:  z.CorporateIdentity,
		Lines:              lines,
		Raw:                append([]byte(nil), raw...),
	}, nil
}

func MapAPIZReportPageToDomain(res api.ZReportListResponse) (*domain.ReportPage, error) {
	items := make([]domain.Report, 0, len(res.Items))
	for i, raw := range res.Items {
		report, err := MapAPIZReportToDomainReport(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, report)
	}

	return &domain.ReportPage{
		CurrentPage:    res.MetaInformation.CurrentPage,
		TotalPages:     res.MetaInformation.TotalPages,
		TotalResources: res.MetaInformation.TotalResources,
		Items:          items,
	}, nil
}
