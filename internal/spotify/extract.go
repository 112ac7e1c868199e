package spotify

import "fmt"

// ExtractIDs maps raw track records to their identifiers, preserving order.
// A nil record or one without an identifier aborts the whole extraction
// with ErrMalformedRecord.
func ExtractIDs(records []*Track) ([]string, error) {
	ids := make([]string, len(records))
	for i, r := range records {
		if r == nil || r.ID == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrMalformedRecord)
		}
		ids[i] = string(r.ID)
	}
	return ids, nil
}
