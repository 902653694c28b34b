package models

import (
	"errors"
	"testing"
)

func TestParseESearchResultCoercesStrings(t *testing.T) {
	raw := []byte(`{"esearchresult":{"count":"42","retmax":"5","retstart":"0","idlist":["1","2","3","4","5"],"querytranslation":"test[All Fields]"}}`)

	result, err := ParseESearchResult(raw)
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 42 {
		t.Errorf("expected count 42, got %d", result.Count)
	}
	if result.Retmax != 5 || result.Retstart != 0 {
		t.Errorf("unexpected retmax/retstart: %d/%d", result.Retmax, result.Retstart)
	}
	if len(result.IDList) != 5 || result.IDList[0] != "1" {
		t.Errorf("unexpected idlist: %v", result.IDList)
	}
	if result.QueryTranslation != "test[All Fields]" {
		t.Errorf("unexpected querytranslation: %s", result.QueryTranslation)
	}
}

func TestParseESearchResultIntegerFields(t *testing.T) {
	raw := []byte(`{"esearchresult":{"count":100,"retmax":20,"retstart":0,"idlist":[]}}`)

	result, err := ParseESearchResult(raw)
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 100 {
		t.Errorf("expected count 100, got %d", result.Count)
	}
}

func TestParseESearchResultMissingEnvelope(t *testing.T) {
	_, err := ParseESearchResult([]byte(`{"error":"something"}`))

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestParseESearchResultNotJSON(t *testing.T) {
	_, err := ParseESearchResult([]byte(`<html>rate limited</html>`))

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestParseESearchResultBadCount(t *testing.T) {
	_, err := ParseESearchResult([]byte(`{"esearchresult":{"count":"not-a-number","retmax":"5","retstart":"0"}}`))

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestParseESearchResultFiltersTranslationStack(t *testing.T) {
	// The translation stack mixes mapping entries with bare operator
	// strings; only the mappings survive parsing.
	raw := []byte(`{"esearchresult":{
		"count":"2","retmax":"2","retstart":"0","idlist":["1","2"],
		"translationstack":[
			{"term":"cancer[All Fields]","field":"All Fields","count":"100","explode":"N"},
			{"term":"therapy[All Fields]","field":"All Fields","count":"50","explode":"N"},
			"AND",
			"GROUP"
		]}}`)

	result, err := ParseESearchResult(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.TranslationStack) != 2 {
		t.Fatalf("expected 2 mapping entries, got %d", len(result.TranslationStack))
	}
	if result.TranslationStack[0]["term"] != "cancer[All Fields]" {
		t.Errorf("unexpected first entry: %v", result.TranslationStack[0])
	}
}

func TestParseESearchResultPreservesExtraFields(t *testing.T) {
	raw := []byte(`{"esearchresult":{"count":"1","retmax":"1","retstart":"0","idlist":["1"],"somefuturefield":{"nested":true}}}`)

	result, err := ParseESearchResult(raw)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := result.Extra["somefuturefield"]; !ok {
		t.Error("expected unrecognized field to be preserved in Extra")
	}
}

func TestHasResults(t *testing.T) {
	r := &ESearchResult{Count: 10, IDList: []string{"1"}}
	if !r.HasResults() {
		t.Error("expected HasResults true")
	}

	empty := &ESearchResult{Count: 0}
	if empty.HasResults() {
		t.Error("expected HasResults false for empty result")
	}
}

func TestHasMoreResults(t *testing.T) {
	r := &ESearchResult{Count: 1000, Retmax: 20, Retstart: 0}
	if !r.HasMoreResults() {
		t.Error("expected more results beyond the first page")
	}

	last := &ESearchResult{Count: 20, Retmax: 20, Retstart: 0}
	if last.HasMoreResults() {
		t.Error("expected no more results")
	}
}
