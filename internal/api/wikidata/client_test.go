package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// newTestClient points a client with fast retry/rate settings at a test server.
func newTestClient(serverURL string) *Client {
	config := DefaultConfig()
	config.BaseURL = serverURL
	config.Timeout = 2 * time.Second
	config.MaxRetries = 2
	config.InitialDelay = time.Millisecond
	config.MaxDelay = 5 * time.Millisecond
	config.RateLimit = time.Microsecond
	config.BurstLimit = 100
	return NewClientWithConfig(config)
}

// entityJSON builds a wbgetentities response body for the given entities.
func entityJSON(entities map[string]map[string]interface{}) string {
	body := map[string]interface{}{"entities": entities}
	b, _ := json.Marshal(body)
	return string(b)
}

// subclassClaims builds P279 claims pointing at the given parents.
func subclassClaims(parents ...string) map[string]interface{} {
	var claims []map[string]interface{}
	for _, p := range parents {
		claims = append(claims, map[string]interface{}{
			"mainsnak": map[string]interface{}{
				"snaktype": "value",
				"property": PropSubclassOf,
				"datavalue": map[string]interface{}{
					"type":  "wikibase-entityid",
					"value": map[string]string{"id": p},
				},
			},
		})
	}
	return map[string]interface{}{PropSubclassOf: claims}
}

func TestGetEntitiesEmptyListSkipsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call expected for an empty id list")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GetEntities(context.Background(), []string{"", "   ", "not-an-id"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty map, got %d entries", len(result))
	}
}

func TestGetEntitiesCachesResults(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, entityJSON(map[string]map[string]interface{}{
			"Q42": {
				"id":     "Q42",
				"labels": map[string]interface{}{"en": map[string]string{"language": "en", "value": "Douglas Adams"}},
			},
		}))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := client.GetEntities(ctx, []string{"Q42"}, []string{"en"}, []string{"labels"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result["Q42"].Label("en") != "Douglas Adams" {
			t.Errorf("unexpected label: %q", result["Q42"].Label("en"))
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}

func TestGetEntityNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		missing := "missing"
		fmt.Fprint(w, entityJSON(map[string]map[string]interface{}{
			"Q99999999": {"id": "Q99999999", "missing": missing},
		}))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetEntity(context.Background(), "Q99999999", nil, nil)
	if !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchEntitiesUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SearchEntities(context.Background(), "dune", "en", 5)
	if !errors.Is(err, shared.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestSearchEntitiesNonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SearchEntities(context.Background(), "dune", "en", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("400 must not be retried, saw %d attempts", calls)
	}
}

// genreServer serves P279 claims for a fixed taxonomy graph.
func genreServer(t *testing.T, graph map[string][]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), "|")
		entities := make(map[string]map[string]interface{}, len(ids))
		for _, id := range ids {
			entities[id] = map[string]interface{}{
				"id":     id,
				"claims": subclassClaims(graph[id]...),
			}
		}
		fmt.Fprint(w, entityJSON(entities))
	}))
}

func TestResolveGenreToRootReachesRoot(t *testing.T) {
	// Q1 -> Q2 -> Q3 (root)
	server := genreServer(t, map[string][]string{
		"Q1": {"Q2"},
		"Q2": {"Q3"},
	})
	defer server.Close()

	client := newTestClient(server.URL)
	root, err := client.ResolveGenreToRoot(context.Background(), "Q1", map[string]bool{"Q3": true}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != "Q3" {
		t.Errorf("expected Q3, got %s", root)
	}
}

func TestResolveGenreToRootTerminatesOnCycle(t *testing.T) {
	// Q1 -> Q2 -> Q3 -> Q1, no root reachable.
	server := genreServer(t, map[string][]string{
		"Q1": {"Q2"},
		"Q2": {"Q3"},
		"Q3": {"Q1"},
	})
	defer server.Close()

	client := newTestClient(server.URL)
	done := make(chan string, 1)
	go func() {
		root, _ := client.ResolveGenreToRoot(context.Background(), "Q1", map[string]bool{"Q100": true}, 8)
		done <- root
	}()

	select {
	case root := <-done:
		// Deepest resolvable ancestor on a pure cycle is the last new node.
		if root == "" {
			t.Error("expected an ancestor id, got empty string")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("genre walk did not terminate on a cyclic graph")
	}
}

func TestResolveGenreToRootEmptyRootSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no canonicalization requested, no network call expected")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	root, err := client.ResolveGenreToRoot(context.Background(), "Q1", nil, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != "Q1" {
		t.Errorf("expected input id unchanged, got %s", root)
	}
}

func TestResolveCanonicalGenresDeduplicates(t *testing.T) {
	// Q1 and Q2 both fold into Q10.
	server := genreServer(t, map[string][]string{
		"Q1": {"Q10"},
		"Q2": {"Q10"},
	})
	defer server.Close()

	client := newTestClient(server.URL)
	roots := map[string]bool{"Q10": true}
	canonical, err := client.ResolveCanonicalGenres(context.Background(), []string{"Q1", "Q2"}, roots, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(canonical) != 1 || canonical[0] != "Q10" {
		t.Errorf("expected [Q10], got %v", canonical)
	}
}

func TestResolveCanonicalGenresHonorsMaxGenres(t *testing.T) {
	server := genreServer(t, map[string][]string{
		"Q1": {"Q10"},
		"Q2": {"Q20"},
		"Q3": {"Q30"},
	})
	defer server.Close()

	client := newTestClient(server.URL)
	roots := map[string]bool{"Q10": true, "Q20": true, "Q30": true}
	canonical, err := client.ResolveCanonicalGenres(context.Background(), []string{"Q1", "Q2", "Q3"}, roots, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(canonical) != 2 || canonical[0] != "Q10" || canonical[1] != "Q20" {
		t.Errorf("expected first two inputs in order, got %v", canonical)
	}
}

func TestBuildTechnicalDetailsBlockedEntity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, entityJSON(map[string]map[string]interface{}{
			"Q5000": {
				"id": "Q5000",
				"claims": map[string]interface{}{
					PropInstanceOf: []map[string]interface{}{{
						"mainsnak": map[string]interface{}{
							"snaktype": "value",
							"property": PropInstanceOf,
							"datavalue": map[string]interface{}{
								"type":  "wikibase-entityid",
								"value": map[string]string{"id": "Q4167410"},
							},
						},
					}},
				},
			},
		}))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	details, err := client.BuildTechnicalDetails(context.Background(), "Q5000", shared.KindFilm, DetailOptions{})
	if !errors.Is(err, shared.ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if details == nil || !details.Blocked {
		t.Error("expected details flagged blocked")
	}
}

func TestBuildTechnicalDetailsTwoHopCountry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := r.URL.Query().Get("ids")
		switch {
		case strings.Contains(ids, "Q7777"):
			fmt.Fprint(w, entityJSON(map[string]map[string]interface{}{
				"Q7777": {
					"id": "Q7777",
					"labels": map[string]interface{}{
						"en": map[string]string{"language": "en", "value": "Some Film"},
					},
					"claims": map[string]interface{}{
						PropCountryOfOrigin: []map[string]interface{}{{
							"mainsnak": map[string]interface{}{
								"snaktype": "value",
								"property": PropCountryOfOrigin,
								"datavalue": map[string]interface{}{
									"type":  "wikibase-entityid",
									"value": map[string]string{"id": "Q155"},
								},
							},
						}},
					},
				},
			}))
		case strings.Contains(ids, "Q155"):
			fmt.Fprint(w, entityJSON(map[string]map[string]interface{}{
				"Q155": {
					"id": "Q155",
					"claims": map[string]interface{}{
						PropISO3166Alpha2: []map[string]interface{}{{
							"mainsnak": map[string]interface{}{
								"snaktype": "value",
								"property": PropISO3166Alpha2,
								"datavalue": map[string]interface{}{
									"type":  "string",
									"value": "BR",
								},
							},
						}},
					},
				},
			}))
		default:
			fmt.Fprint(w, entityJSON(map[string]map[string]interface{}{}))
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	details, err := client.BuildTechnicalDetails(context.Background(), "Q7777", shared.KindFilm, DetailOptions{SkipCreator: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.CountryCode != "BR" {
		t.Errorf("expected two-hop country BR, got %q", details.CountryCode)
	}
}
