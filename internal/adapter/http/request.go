package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/YelzhanWeb/coffee-shop/internal/domain"

	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = domain.NewValidationError("", "invalid JSON body")

// decodeObject reads a JSON object body into raw fields. An empty body is
// treated as an empty object.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return fields, nil
		}
		return nil, errInvalidBody
	}
	return fields, nil
}

// present reports whether key was sent with a non-null value.
func present(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	return raw, true
}

func parseName(raw json.RawMessage) (string, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", domain.NewValidationError("name", "name must be a string")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError("name", "name required")
	}
	return name, nil
}

// numericText accepts a JSON number or a string holding one.
func numericText(raw json.RawMessage) (string, bool) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	text, ok := numericText(raw)
	if !ok {
		return decimal.Zero, domain.NewValidationError("price", "price must be a number")
	}
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, domain.NewValidationError("price", "price must be a number")
	}
	return price, nil
}

func parseInventory(raw json.RawMessage) (int, error) {
	text, ok := numericText(raw)
	if !ok {
		return 0, domain.NewValidationError("inventory", "inventory must be an integer")
	}
	n, err := decimal.NewFromString(text)
	if err != nil || !n.IsInteger() {
		return 0, domain.NewValidationError("inventory", "inventory must be an integer")
	}
	if n.GreaterThan(decimal.NewFromInt(math.MaxInt32)) || n.LessThan(decimal.NewFromInt(math.MinInt32)) {
		return 0, domain.NewValidationError("inventory", "inventory is out of range")
	}
	return int(n.IntPart()), nil
}

// parseItems accepts only a JSON array of integer literals. A missing or
// null value means no items.
func parseItems(fields map[string]json.RawMessage) ([]int64, error) {
	raw, ok := present(fields, "items")
	if !ok {
		return []int64{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, domain.NewValidationError("items", "items must be a list of integers")
	}

	ids := make([]int64, len(elems))
	for i, elem := range elems {
		id, err := strconv.ParseInt(string(bytes.TrimSpace(elem)), 10, 64)
		if err != nil {
			return nil, domain.NewValidationError("items", fmt.Sprintf("items[%d] must be an integer", i))
		}
		ids[i] = id
	}
	return ids, nil
}

func parseCustomerName(fields map[string]json.RawMessage) (string, error) {
	raw, ok := present(fields, "customer_name")
	if !ok {
		return domain.DefaultCustomerName, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", domain.NewValidationError("customer_name", "customer_name must be a string")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.DefaultCustomerName, nil
	}
	return name, nil
}

// parseThreshold reads ?threshold=, defaulting when it is absent.
func parseThreshold(r *http.Request, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("threshold"))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, domain.NewValidationError("threshold", "threshold must be a 32-bit integer")
	}
	return int(n), nil
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
