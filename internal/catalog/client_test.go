package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "rickandmortyapi.com" || u.Path != "/api" {
		t.Fatalf("default url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("http://example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("localhost:8080")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "localhost:8080" {
		t.Fatalf("url = %q, want https://localhost:8080", u.String())
	}
}

func pageBody(ids []int, next bool) listResponse {
	var resp listResponse
	resp.Info.Count = 826
	resp.Info.Pages = 42
	if next {
		n := "https://rickandmortyapi.com/api/character?page=2"
		resp.Info.Next = &n
	}
	for _, id := range ids {
		resp.Results = append(resp.Results, Entry{ID: id, Name: "Rick"})
	}
	return resp
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var gotPage, gotName, gotUserAgent, gotIDsPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/api/character" && r.URL.Query().Get("page") != "":
			gotPage = r.URL.Query().Get("page")
			_ = json.NewEncoder(w).Encode(pageBody([]int{1, 2, 3}, true))
		case r.URL.Path == "/api/character/" && r.URL.Query().Get("name") != "":
			gotName = r.URL.Query().Get("name")
			_ = json.NewEncoder(w).Encode(pageBody([]int{7}, false))
		case r.URL.Path == "/api/character/42":
			_ = json.NewEncoder(w).Encode(Entry{ID: 42, Name: "Morty", Origin: Place{Name: "Earth (C-137)"}})
		case r.URL.Path == "/api/character/1,2":
			gotIDsPath = r.URL.Path
			_ = json.NewEncoder(w).Encode([]Entry{{ID: 1}, {ID: 2}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	page, err := c.FetchPage(ctx, 3)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if gotPage != "3" {
		t.Fatalf("page query = %q, want 3", gotPage)
	}
	if page.Number != 3 || len(page.Entries) != 3 || !page.HasMore || page.Pages != 42 {
		t.Fatalf("FetchPage = %#v, want page 3 with 3 entries and more", page)
	}

	entries, err := c.FetchByName(ctx, "  rick sanchez ")
	if err != nil {
		t.Fatalf("FetchByName returned error: %v", err)
	}
	if gotName != "rick sanchez" {
		t.Fatalf("name query = %q, want trimmed term", gotName)
	}
	if len(entries) != 1 || entries[0].ID != 7 {
		t.Fatalf("FetchByName = %#v, want id 7", entries)
	}

	entry, err := c.FetchByID(ctx, 42)
	if err != nil {
		t.Fatalf("FetchByID returned error: %v", err)
	}
	if entry.Name != "Morty" || entry.Origin.Name != "Earth (C-137)" {
		t.Fatalf("FetchByID = %#v, want Morty from Earth", entry)
	}

	many, err := c.FetchByIDs(ctx, []int{1, 2, 2, -5})
	if err != nil {
		t.Fatalf("FetchByIDs returned error: %v", err)
	}
	if gotIDsPath != "/api/character/1,2" || len(many) != 2 {
		t.Fatalf("FetchByIDs path=%q entries=%d, want deduplicated 1,2", gotIDsPath, len(many))
	}

	if !strings.HasPrefix(gotUserAgent, "dossier/") {
		t.Fatalf("User-Agent = %q, want dossier/*", gotUserAgent)
	}
}

func TestClient_LastPageHasNoMore(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pageBody([]int{821, 822}, false))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	page, err := c.FetchPage(context.Background(), 42)
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page.HasMore {
		t.Fatalf("HasMore = true on last page, want false")
	}
}

func TestClient_NameWithoutMatchesIsEmptySuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"There is nothing here"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	entries, err := c.FetchByName(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("FetchByName returned error: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("FetchByName = %#v, want empty non-nil slice", entries)
	}

	_, err = c.FetchByID(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchByID error = %v, want ErrNotFound", err)
	}
}

func TestClient_BlankNameSkipsRequest(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	entries, err := c.FetchByName(context.Background(), "   ")
	if err != nil || len(entries) != 0 {
		t.Fatalf("FetchByName = %#v, %v; want empty, nil", entries, err)
	}
	if called {
		t.Fatalf("blank term should not hit the API")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/character":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/character/1":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	page, err := c.FetchPage(context.Background(), 1)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("FetchPage error = %v, want ErrDecode", err)
	}
	if len(page.Entries) != 0 {
		t.Fatalf("FetchPage populated %d entries on failure", len(page.Entries))
	}
	if !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchPage error = %q, want it to mention decode response", err.Error())
	}

	_, err = c.FetchByID(context.Background(), 1)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("FetchByID error = %v, want ErrNetwork", err)
	}
	var catErr *Error
	if !errors.As(err, &catErr) || catErr.Status != http.StatusInternalServerError {
		t.Fatalf("FetchByID error = %#v, want *Error with status 500", err)
	}
}

func TestClient_TimeoutIsNetworkError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(server.URL, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchPage(context.Background(), 1)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("FetchPage error = %v, want ErrNetwork on timeout", err)
	}
}
