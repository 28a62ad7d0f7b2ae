package database

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// documentFields flattens a record into its stored attributes: the key
// attributes plus every present body field. Record numbers are decimals and
// are stored as strings so values stay exact; Firestore never holds them as
// doubles.
func documentFields(rec types.Record) (map[string]interface{}, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	fields := map[string]interface{}{}
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("flatten record: %w", err)
	}
	for k, v := range rec.StoreKey().Attributes() {
		fields[k] = v
	}
	return fields, nil
}

// splitFields separates key attributes from the body of a stored document.
func splitFields(fields map[string]interface{}) (keys.Key, []byte, error) {
	attrs := make(map[string]string, 4)
	body := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch k {
		case keys.AttrPK, keys.AttrSK, keys.AttrGSI1PK, keys.AttrGSI1SK:
			s, ok := v.(string)
			if !ok {
				return keys.Key{}, nil, fmt.Errorf("key attribute %s is %T, not string", k, v)
			}
			attrs[k] = s
		default:
			body[k] = v
		}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return keys.Key{}, nil, fmt.Errorf("marshal body: %w", err)
	}
	return keys.FromAttributes(attrs), data, nil
}
