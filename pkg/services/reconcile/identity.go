package reconcile

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/de-tools/zimport/pkg/models/domain"
)

// IdentityFunc decides whether a journal entry records the given report.
// Reversal is handled by the Matcher, not by the identity.
type IdentityFunc func(report domain.Report, entry domain.JournalEntry) bool

// TitleIdentity matches on the exact verification title.
func TitleIdentity(report domain.Report, entry domain.JournalEntry) bool {
	return entry.Title == report.Label()
}

var labelPattern = regexp.MustCompile(`^\s*Z,\s*Bu:\s*(\d+)\s+Ka:\s*(\d+)\s+Nr:\s*(\d+)\b`)

// SequenceIdentity parses store, register and sequence number back out of the
// entry title and compares them with the report, ignoring spacing and the
// receipt range.
func SequenceIdentity(report domain.Report, entry domain.JournalEntry) bool {
	store, register, sequence, ok := parseLabel(entry.Title)
	if !ok {
		return false
	}
	return store == report.StoreNumber &&
		register == report.CashRegisterNumber &&
		sequence == report.SequenceNumber
}

func parseLabel(title string) (store, register, sequence uint32, ok bool) {
	m := labelPattern.FindStringSubmatch(title)
	if m == nil {
		return 0, 0, 0, false
	}
	var parsed [3]uint32
	for i, s := range m[1:] {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, 0, 0, false
		}
		parsed[i] = uint32(n)
	}
	return parsed[0], parsed[1], parsed[2], true
}

// DefaultIdentity is the strategy used when none is configured.
const DefaultIdentity = "title"

var identities = map[string]IdentityFunc{
	"title":    TitleIdentity,
	"sequence": SequenceIdentity,
}

// LookupIdentity returns the named identity strategy.
func LookupIdentity(name string) (IdentityFunc, error) {
	if name == "" {
		name = DefaultIdentity
	}
	fn, ok := identities[name]
	if !ok {
		return nil, fmt.Errorf("unknown match strategy %q. Supported strategies: %v", name, IdentityNames())
	}
	return fn, nil
}

// IdentityNames lists the registered strategies in sorted order.
func IdentityNames() []string {
	names := make([]string, 0, len(identities))
	for name := range identities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
