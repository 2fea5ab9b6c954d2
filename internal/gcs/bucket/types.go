package bucket

import (
	"encoding/json"
	"strconv"
	"time"
)

// ObjectMetadata describes one object as reported by the storage API.
// Raw carries every server-reported field verbatim; the named fields are
// decoded from it for convenience.
type ObjectMetadata struct {
	Name        string
	Size        int64
	ContentType string
	Updated     time.Time
	Raw         map[string]any
}

func metadataFromRaw(raw map[string]any) ObjectMetadata {
	md := ObjectMetadata{Raw: raw}
	if v, ok := raw["name"].(string); ok {
		md.Name = v
	}
	if v, ok := raw["contentType"].(string); ok {
		md.ContentType = v
	}
	// The JSON API reports size as a decimal string.
	switch v := raw["size"].(type) {
	case string:
		md.Size, _ = strconv.ParseInt(v, 10, 64)
	case float64:
		md.Size = int64(v)
	case json.Number:
		md.Size, _ = v.Int64()
	}
	if v, ok := raw["updated"].(string); ok {
		md.Updated, _ = time.Parse(time.RFC3339, v)
	}
	return md
}

type listResponse struct {
	Items []map[string]any `json:"items"`
}
