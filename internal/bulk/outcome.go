package bulk

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/wolfeidau/mentorhub/internal/models"
)

// ItemStatus is what happened to one selected id.
type ItemStatus string

const (
	ItemSucceeded ItemStatus = "succeeded"
	ItemFailed    ItemStatus = "failed"
	// ItemUnknown marks ids the server did not report on.
	ItemUnknown ItemStatus = "unknown"
)

// Item is the outcome for one id.
type Item struct {
	ID     string
	Status ItemStatus
	Error  string
}

// Outcome lists every selected id in selection order with its result.
type Outcome struct {
	Items     []Item
	Succeeded int
	Failed    int
	Unknown   int
}

// NewOutcome matches the server's partition against the selection. Ids the
// server lists that were never selected are ignored.
func NewOutcome(selected []string, res models.BulkResult) Outcome {
	succeeded := make(map[string]bool, len(res.Success))
	for _, id := range res.Success {
		succeeded[id] = true
	}
	failed := make(map[string]string, len(res.Failed))
	for _, f := range res.Failed {
		failed[f.ID] = f.Error
	}

	var o Outcome
	for _, id := range selected {
		item := Item{ID: id}
		if reason, ok := failed[id]; ok {
			item.Status = ItemFailed
			item.Error = reason
			o.Failed++
		} else if succeeded[id] {
			item.Status = ItemSucceeded
			o.Succeeded++
		} else {
			item.Status = ItemUnknown
			o.Unknown++
		}
		o.Items = append(o.Items, item)
	}
	return o
}

// unknownOutcome reports every id as unknown, used when the request itself failed.
func unknownOutcome(selected []string, reason string) Outcome {
	o := Outcome{Unknown: len(selected)}
	for _, id := range selected {
		o.Items = append(o.Items, Item{ID: id, Status: ItemUnknown, Error: reason})
	}
	return o
}

// Total is the number of selected ids.
func (o Outcome) Total() int { return len(o.Items) }

// Partial reports whether some but not all ids succeeded.
func (o Outcome) Partial() bool {
	return o.Succeeded > 0 && o.Succeeded < o.Total()
}

// Failures returns the items that did not succeed.
func (o Outcome) Failures() []Item {
	var out []Item
	for _, item := range o.Items {
		if item.Status != ItemSucceeded {
			out = append(out, item)
		}
	}
	return out
}

// Summary describes the outcome, always stating the failure count when there
// is one, e.g. "2 users disabled, 1 failed".
func (o Outcome) Summary(noun, verb string) string {
	var b strings.Builder
	if o.Succeeded == 0 {
		fmt.Fprintf(&b, "No %s %s", english.PluralWord(2, noun, ""), verb)
	} else {
		fmt.Fprintf(&b, "%s %s", english.Plural(o.Succeeded, noun, ""), verb)
	}
	if o.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", o.Failed)
	}
	if o.Unknown > 0 {
		fmt.Fprintf(&b, ", %d unknown", o.Unknown)
	}
	return b.String()
}
