package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ESearchResult is a validated ESearch response.
//
// NCBI returns the numeric fields as strings in JSON mode; they are coerced
// to ints during parsing. Fields the model does not recognize are preserved
// untyped in Extra.
type ESearchResult struct {
	Count            int                 `json:"count"`
	Retmax           int                 `json:"retmax"`
	Retstart         int                 `json:"retstart"`
	IDList           []string            `json:"idlist"`
	TranslationSet   []map[string]any    `json:"translationset,omitempty"`
	TranslationStack []map[string]any    `json:"translationstack,omitempty"`
	QueryTranslation string              `json:"querytranslation,omitempty"`
	WarningList      []string            `json:"warninglist,omitempty"`
	ErrorList        map[string][]string `json:"errorlist,omitempty"`

	// Extra holds response fields outside the known set, preserved but not
	// type-checked.
	Extra map[string]json.RawMessage `json:"-"`
}

// HasResults reports whether the search matched anything.
func (r *ESearchResult) HasResults() bool {
	return r.Count > 0 && len(r.IDList) > 0
}

// HasMoreResults reports whether results remain beyond the returned page.
func (r *ESearchResult) HasMoreResults() bool {
	return r.Retstart+r.Retmax < r.Count
}

// ParseESearchResult decodes a raw ESearch JSON body into a validated result.
// A body without the esearchresult envelope, or with fields that cannot be
// coerced, is a *ValidationError.
func ParseESearchResult(raw []byte) (*ESearchResult, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("esearch response is not a JSON object: %v", err)}
	}

	inner, ok := envelope["esearchresult"]
	if !ok {
		return nil, &ValidationError{Message: "esearch response missing esearchresult"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("esearchresult is not a JSON object: %v", err)}
	}

	result := &ESearchResult{Extra: map[string]json.RawMessage{}}
	for name, value := range fields {
		var err error
		switch name {
		case "count":
			result.Count, err = flexInt(value)
		case "retmax":
			result.Retmax, err = flexInt(value)
		case "retstart":
			result.Retstart, err = flexInt(value)
		case "idlist":
			err = json.Unmarshal(value, &result.IDList)
		case "translationset":
			result.TranslationSet, err = mappingEntries(value)
		case "translationstack":
			result.TranslationStack, err = mappingEntries(value)
		case "querytranslation":
			err = json.Unmarshal(value, &result.QueryTranslation)
		case "warninglist":
			err = json.Unmarshal(value, &result.WarningList)
		case "errorlist":
			err = json.Unmarshal(value, &result.ErrorList)
		default:
			result.Extra[name] = value
		}
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("esearchresult field %q: %v", name, err)}
		}
	}

	return result, nil
}

// flexInt accepts both 42 and "42", which NCBI uses interchangeably.
func flexInt(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected int or string, got %s", raw)
	}
	return strconv.Atoi(s)
}

// mappingEntries decodes a list, keeping only the elements that are JSON
// objects. The translation stack mixes objects with bare operator strings
// ("AND", "OR"); dropping the non-mapping entries is intentional.
func mappingEntries(raw json.RawMessage) ([]map[string]any, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	var out []map[string]any
	for _, item := range items {
		var m map[string]any
		if err := json.Unmarshal(item, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
