package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken                string `json:"accessToken"`
	PreferredCorporateIdentity string `json:"preferredCorporateIdentity"`
}

type MetaInformation struct {
	CurrentPage    uint32 `json:"currentPage"`
	TotalPages     uint32 `json:"totalPages"`
	TotalResources uint32 `json:"totalResources"`
}

// ZReportListResponse keeps the items raw so the exact payload can be archived.
type ZReportListResponse struct {
	MetaInformation MetaInformation   `json:"metaInformation"`
	Items           []json.RawMessage `json:"items"`
}

type ZReport struct {
	SequenceNumber      uint32               `json:"sequenceNumber"`
	StoreNumber         uint32               `json:"storeNumber"`
	CashRegisterNumber  uint32               `json:"cashRegisterNumber"`
	FirstReceipt        uint32               `json:"firstReceipt"`
	LastReceipt         uint32               `json:"lastReceipt"`
	DateCreated         string               `json:"dateCreated"`
	CompanyName         string               `json:"companyName"`
	CorporateIdentity   string               `json:"corporateIdentity"`
	ZReportTransactions []ZReportTransaction `json:"zReportTransactions"`
}

type ZReportTransaction struct {
	AccountNumber uint16          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
}
