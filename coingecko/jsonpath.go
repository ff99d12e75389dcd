package coingecko

import (
	"encoding/json"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/coinfolio"
)

// lookup evaluates a jsonpath on a decoded payload. ok is false when the
// value is absent or null.
func lookup(obj any, path string) (v any, ok bool) {
	v, err := jsonpath.Get(path, obj)
	if err != nil {
		return nil, false
	}
	// jsonpath may return a list of one answer instead of the answer.
	if list, isList := v.([]any); isList {
		if len(list) == 0 {
			return nil, false
		}
		v = list[0]
	}
	return v, v != nil
}

func pathString(obj any, path string) *string {
	v, ok := lookup(obj, path)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func pathNumber(obj any, path string) *json.Number {
	v, ok := lookup(obj, path)
	if !ok {
		return nil
	}
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}
	return &n
}

func pathMoney(obj any, path string) *coinfolio.Money     { return money(pathNumber(obj, path)) }
func pathPercent(obj any, path string) *coinfolio.Percent { return percent(pathNumber(obj, path)) }
func pathInt(obj any, path string) *int                   { return integer(pathNumber(obj, path)) }
