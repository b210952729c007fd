package catalog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
)

// InvalidProductTitle is the title of the fallback record served when a
// product payload cannot be normalized.
const InvalidProductTitle = "Invalid Product"

// FallbackProduct is the deterministic stand-in for an unusable product
// payload. The page renders it instead of crashing.
func FallbackProduct() Product {
	return Product{
		ID:          0,
		Title:       InvalidProductTitle,
		Images:      []string{},
		Breadcrumbs: []Breadcrumb{},
		Benefits:    []string{},
	}
}

// NormalizeProduct converts a raw backend payload into a Product. It never
// fails: non-object payloads yield FallbackProduct, and fields that cannot be
// decoded fall back to their empty defaults. The images, breadcrumbs,
// benefits, shipping, pickup and specs fields additionally accept a
// JSON-encoded string of the value, which some backends emit instead of the
// structured value itself. Normalizing an already normalized product is a
// no-op, so the result can be marshalled and fed back in unchanged.
func NormalizeProduct(raw []byte) Product {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		slog.Warn("product payload is not an object, serving fallback product", "error", err)
		return FallbackProduct()
	}

	p := Product{
		Images:      []string{},
		Breadcrumbs: []Breadcrumb{},
		Benefits:    []string{},
	}
	for key, value := range fields {
		switch key {
		case "id":
			decodeStrict(value, &p.ID)
		case "title":
			decodeStrict(value, &p.Title)
		case "description":
			decodeStrict(value, &p.Description)
		case "images":
			p.Images = decodeImages(value)
		case "breadcrumbs":
			decodeFlexible(value, &p.Breadcrumbs)
		case "benefits":
			decodeFlexible(value, &p.Benefits)
		case "shipping":
			p.Shipping = decodeFlexiblePtr[Shipping](value)
		case "pickup":
			p.Pickup = decodeFlexiblePtr[Pickup](value)
		case "specs":
			p.Specs = decodeFlexiblePtr[Specs](value)
		default:
			if p.extra == nil {
				p.extra = make(map[string]json.RawMessage)
			}
			p.extra[key] = canonicalRaw(value)
		}
	}
	return p
}

// NormalizeQuestions converts a raw questions payload into a slice. Anything
// that is not an array yields an empty slice, and entries that cannot be
// decoded are dropped rather than failing the whole list.
func NormalizeQuestions(raw []byte) []Question {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Warn("questions payload is not an array, serving empty list", "error", err)
		return []Question{}
	}

	questions := make([]Question, 0, len(items))
	for _, item := range items {
		var entry struct {
			ID            json.RawMessage `json:"id"`
			Question      string          `json:"question"`
			Answer        *string         `json:"answer"`
			UserGenerated bool            `json:"isUserGenerated"`
		}
		if err := json.Unmarshal(item, &entry); err != nil {
			slog.Warn("dropping undecodable question entry", "error", err)
			continue
		}
		questions = append(questions, Question{
			ID:            idString(entry.ID),
			Question:      entry.Question,
			Answer:        entry.Answer,
			UserGenerated: entry.UserGenerated,
		})
	}
	return questions
}

// MarshalJSON writes the normalized fields together with any passthrough
// fields kept from the raw payload. Nil shipping, pickup and specs are
// omitted so they stay absent on the next normalization pass.
func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.extra)+9)
	for key, value := range p.extra {
		out[key] = value
	}

	put := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}

	if err := put("id", p.ID); err != nil {
		return nil, err
	}
	if err := put("title", p.Title); err != nil {
		return nil, err
	}
	if err := put("description", p.Description); err != nil {
		return nil, err
	}
	if err := put("images", p.Images); err != nil {
		return nil, err
	}
	if err := put("breadcrumbs", p.Breadcrumbs); err != nil {
		return nil, err
	}
	if err := put("benefits", p.Benefits); err != nil {
		return nil, err
	}
	if p.Shipping != nil {
		if err := put("shipping", p.Shipping); err != nil {
			return nil, err
		}
	}
	if p.Pickup != nil {
		if err := put("pickup", p.Pickup); err != nil {
			return nil, err
		}
	}
	if p.Specs != nil {
		if err := put("specs", p.Specs); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// decodeStrict decodes a scalar field, keeping the zero value on mismatch.
func decodeStrict[T any](raw json.RawMessage, dst *T) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return
	}
	*dst = out
}

// flexibleValue resolves a field that may arrive either as a structured JSON
// value or as a string holding JSON text. A string whose content is not
// valid JSON resolves to absent.
func flexibleValue(raw json.RawMessage) (json.RawMessage, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if !json.Valid([]byte(s)) {
			return nil, false
		}
		return json.RawMessage(s), true
	}
	return raw, true
}

func decodeFlexible[T any](raw json.RawMessage, dst *T) {
	value, ok := flexibleValue(raw)
	if !ok {
		return
	}
	var out T
	if err := json.Unmarshal(value, &out); err != nil {
		return
	}
	*dst = out
}

func decodeFlexiblePtr[T any](raw json.RawMessage) *T {
	value, ok := flexibleValue(raw)
	if !ok {
		return nil
	}
	var out T
	if err := json.Unmarshal(value, &out); err != nil {
		return nil
	}
	return &out
}

// decodeImages insists on a list of strings. Anything else, including a
// string field that does not parse to such a list, normalizes to empty.
func decodeImages(raw json.RawMessage) []string {
	value, ok := flexibleValue(raw)
	if !ok {
		return []string{}
	}
	var images []string
	if err := json.Unmarshal(value, &images); err != nil || images == nil {
		return []string{}
	}
	return images
}

// canonicalRaw rewrites a passthrough value the way encoding/json would emit
// it, so a marshalled product normalizes back to an identical value.
func canonicalRaw(raw json.RawMessage) json.RawMessage {
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, raw); err != nil {
		return raw
	}
	var escaped bytes.Buffer
	json.HTMLEscape(&escaped, compacted.Bytes())
	return escaped.Bytes()
}

func idString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
