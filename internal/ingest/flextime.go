// flextime.go: tolerant timestamp decoding for scraped order exports
package ingest

import (
	"encoding/json"
	"time"
)

// flexLayouts are the timestamp formats seen in order exports, tried in order.
var flexLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006", // Norwegian date format used on order pages
}

// FlexTime is a time.Time that decodes from any of the export's timestamp
// formats. An empty, null or unparseable value decodes to the zero time; a
// missing order date is a data-quality issue handled downstream, not a parse
// error.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ft *FlexTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// null or a non-string value, treat as missing
		ft.Time = time.Time{}
		return nil
	}
	if raw == "" {
		ft.Time = time.Time{}
		return nil
	}

	for _, layout := range flexLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			ft.Time = t
			return nil
		}
	}

	ft.Time = time.Time{}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ft FlexTime) MarshalJSON() ([]byte, error) {
	if ft.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(ft.Format(time.RFC3339))
}
