package eta

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// object is a JSON object kept as raw members so fields can be probed under
// several names without committing to one struct layout.
type object map[string]json.RawMessage

// timestampFormats lists the issuance layouts seen in authority payloads.
// Fractional seconds are accepted by time.Parse without being in the layout.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse converts one raw payload into a Document. Only a payload that is not
// a JSON object fails; unreadable nested content falls back to top-level
// fields and is reported through Document.NestedErr.
func Parse(raw []byte) (Document, error) {
	const op = "Parse"

	var top object
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		if err == nil {
			err = ErrNotObject
		}
		return Document{}, NewParseError(op, ErrNotObject, err.Error())
	}
	return Decode(top), nil
}

// Decode builds a Document from an already parsed top-level object,
// resolving the inner document first and top-level fields second.
func Decode(top map[string]json.RawMessage) Document {
	outer := object(top)
	doc := Document{Shape: ShapeSearchResult}

	inner, present, err := outer.nested("document")
	if present {
		if err != nil {
			doc.NestedErr = NewParseError("decodeNested", ErrNestedDocument, err.Error())
			inner = nil
		} else {
			doc.Shape = ShapeFullDocument
		}
	}
	sources := []object{inner, outer}

	doc.UUID = firstString([]object{outer, inner}, "uuid")
	doc.InternalID = firstString(sources, "internalID", "internalId")
	doc.TypeCode = firstString(sources, "documentType", "typeName")
	doc.Currency = firstString(sources, "documentCurrency", "currency")
	doc.IssuedAtRaw = firstString(sources, "dateTimeIssued")
	doc.IssuedAt = parseTimestamp(doc.IssuedAtRaw)

	doc.Issuer = resolveParty(sources, "issuer")
	doc.Receiver = resolveParty(sources, "receiver")

	doc.TotalSales = firstDecimal(sources, "totalSalesAmount", "totalSales")
	doc.NetAmount = firstDecimal(sources, "netAmount")
	doc.TotalAmount = firstDecimal(sources, "totalAmount", "total")

	if inner != nil {
		doc.TaxTotals = inner.taxTotals()
	}
	if doc.TaxTotals == nil {
		doc.TaxTotals = outer.taxTotals()
	}

	return doc
}

// nested returns the embedded object under key, decoding a JSON string
// payload when necessary.
func (o object) nested(key string) (object, bool, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, false, nil
	}

	payload := raw
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return nil, true, err
		}
		payload = []byte(encoded)
	}

	var inner object
	if err := json.Unmarshal(payload, &inner); err != nil {
		return nil, true, err
	}
	if inner == nil {
		return nil, true, ErrNotObject
	}
	return inner, true, nil
}

func (o object) str(key string) (string, bool) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	// Identifiers are sometimes emitted as bare numbers.
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func (o object) dec(key string) (decimal.Decimal, bool) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return decimal.Zero, false
	}
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false
		}
		text = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (o object) child(key string) object {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil
	}
	var c object
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil
	}
	return c
}

func (o object) taxTotals() map[TaxType]decimal.Decimal {
	raw, ok := o["taxTotals"]
	if !ok || isNull(raw) {
		return nil
	}
	var entries []object
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return nil
	}
	totals := make(map[TaxType]decimal.Decimal, len(entries))
	for _, e := range entries {
		code, ok := e.str("taxType")
		if !ok {
			continue
		}
		amount, _ := e.dec("amount")
		t := TaxType(strings.ToUpper(code))
		totals[t] = totals[t].Add(amount)
	}
	if len(totals) == 0 {
		return nil
	}
	return totals
}

// resolveParty reads a party from a nested object ("issuer": {...}) and from
// flat fields ("issuerId", "issuerName", "issuerType"), preferring the first
// source that has a value.
func resolveParty(sources []object, role string) Party {
	var p Party
	for _, src := range sources {
		if src == nil {
			continue
		}
		nested := src.child(role)
		for _, candidate := range []struct {
			obj  object
			id   string
			name string
			typ  string
		}{
			{nested, "id", "name", "type"},
			{src, role + "Id", role + "Name", role + "Type"},
		} {
			if candidate.obj == nil {
				continue
			}
			if p.ID == "" {
				p.ID, _ = candidate.obj.str(candidate.id)
			}
			if p.Name == "" {
				p.Name, _ = candidate.obj.str(candidate.name)
			}
			if p.Type == "" {
				p.Type, _ = candidate.obj.str(candidate.typ)
			}
		}
	}
	return p
}

func firstString(sources []object, keys ...string) string {
	for _, src := range sources {
		if src == nil {
			continue
		}
		for _, k := range keys {
			if v, ok := src.str(k); ok {
				return v
			}
		}
	}
	return ""
}

// firstDecimal returns the first nonzero amount; zero-valued fields fall
// through to the next candidate the same way absent ones do.
func firstDecimal(sources []object, keys ...string) decimal.Decimal {
	for _, src := range sources {
		if src == nil {
			continue
		}
		for _, k := range keys {
			if v, ok := src.dec(k); ok && !v.IsZero() {
				return v
			}
		}
	}
	return decimal.Zero
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
