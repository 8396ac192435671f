package encar

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WessleyAI/encarview/engine/catalog"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/car_list.json
var carListSchema string

// envelopeKeys are the object fields searched for the car array, in order.
var envelopeKeys = []string{"cars", "data", "results"}

// ErrUnexpectedShape is returned in strict mode when the list payload is not
// the canonical bare array.
var ErrUnexpectedShape = errors.New("unexpected list payload shape")

func compileListSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("car_list.json", bytes.NewReader([]byte(carListSchema))); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return c.Compile("car_list.json")
}

// decodeListTolerant accepts a bare array or an object holding the array
// under one of envelopeKeys. Any other well-formed JSON degrades to an empty
// list with a warning; malformed JSON is an error.
func decodeListTolerant(body []byte, log *slog.Logger) ([]catalog.CarSummary, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		log.Warn("unexpected list response shape", "shape", "empty body")
		return []catalog.CarSummary{}, nil
	}

	switch body[0] {
	case '[':
		return decodeCars(body)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		for _, key := range envelopeKeys {
			raw, ok := obj[key]
			if !ok {
				continue
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) > 0 && raw[0] == '[' {
				return decodeCars(raw)
			}
		}
		log.Warn("unexpected list response shape", "shape", "object", "keys", keysOf(obj))
		return []catalog.CarSummary{}, nil
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("decode list: invalid JSON")
	}
	log.Warn("unexpected list response shape", "shape", "scalar")
	return []catalog.CarSummary{}, nil
}

// decodeListStrict accepts only the canonical bare array and validates it
// against the embedded schema.
func decodeListStrict(body []byte, schema *jsonschema.Schema) ([]catalog.CarSummary, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if _, ok := doc.([]any); !ok {
		return nil, ErrUnexpectedShape
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return decodeCars(body)
}

func decodeCars(raw []byte) ([]catalog.CarSummary, error) {
	cars := []catalog.CarSummary{}
	if err := json.Unmarshal(raw, &cars); err != nil {
		return nil, fmt.Errorf("decode cars: %w", err)
	}
	return cars, nil
}

func keysOf(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
