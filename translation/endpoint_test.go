package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/translation/batch" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.LanguageCode == "ja" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"Translation not available"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(Response{TranslatedText: "Bruschetta", Saved: true})
	}))
	defer srv.Close()

	ep := NewHTTPEndpoint(srv.URL+"/", "tok")
	resp, err := ep.Translate(context.Background(), Request{Text: "Bruschetta", LanguageCode: "en", Kind: KindItemName, EntityID: "1"})
	if err != nil || !resp.Saved || resp.TranslatedText != "Bruschetta" {
		t.Fatalf("resp = %+v, err = %v", resp, err)
	}

	_, err = ep.Translate(context.Background(), Request{Text: "Bruschetta", LanguageCode: "ja", Kind: KindItemName, EntityID: "1"})
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway || se.Message != "Translation not available" {
		t.Errorf("err = %v", err)
	}
}

func TestHTTPEndpoint_FailuresCountInBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	res, err := NewDispatcher(NewHTTPEndpoint(srv.URL, ""), nil).Run(context.Background(), "m", NewSelection(threeUnits()))
	if err != nil {
		t.Fatal(err)
	}
	if res.Completed != 3 || res.Failed != 3 {
		t.Errorf("result = %+v", res)
	}
}
