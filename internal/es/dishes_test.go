package es

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_delivery/internal/models"
)

type fakeCluster struct {
	mu          sync.Mutex
	indexExists bool
	bulkBodies  [][]byte
	searchBody  map[string]any
	bulkErrors  bool
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	body, _ := io.ReadAll(r.Body)

	switch {
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`{"cluster_name":"test","version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`))
	case r.URL.Path == "/dishes" && r.Method == http.MethodHead:
		if f.indexExists {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.URL.Path == "/dishes" && r.Method == http.MethodPut:
		f.indexExists = true
		_, _ = w.Write([]byte(`{"acknowledged":true,"index":"dishes"}`))
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		f.bulkBodies = append(f.bulkBodies, body)
		if f.bulkErrors {
			_, _ = w.Write([]byte(`{"errors":true,"items":[{"index":{"_id":"x","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad price"}}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"errors":false,"items":[]}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_ = json.Unmarshal(body, &f.searchBody)
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[{"_source":{"id":"d1","name":"Risotto ai Funghi Porcini","category":"first_course","price":18.5,"is_active":true}}]}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"unexpected request"}`))
	}
}

func newTestIndex(t *testing.T) (*DishIndex, *fakeCluster) {
	t.Helper()
	cluster := &fakeCluster{}
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Options{URL: srv.URL})
	require.NoError(t, err)
	return NewDishIndex(client, "dishes"), cluster
}

func TestIndexDishes(t *testing.T) {
	idx, cluster := newTestIndex(t)

	active := true
	dishes := []models.Dish{
		{ID: uuid.New(), Name: "Tiramisù", Description: "Dolce", Price: 7.5, Category: models.CategoryDessert, IsActive: &active},
		{ID: uuid.New(), Name: "Risotto ai Funghi Porcini", Description: "Risotto", Price: 18.5, Category: models.CategoryFirstCourse},
	}
	require.NoError(t, idx.IndexDishes(context.Background(), dishes))

	cluster.mu.Lock()
	exists, bodies := cluster.indexExists, cluster.bulkBodies
	cluster.mu.Unlock()
	assert.True(t, exists)
	require.Len(t, bodies, 1)

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(bodies[0]))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 4)

	var meta map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &meta))
	assert.Equal(t, dishes[0].ID.String(), meta["index"]["_id"])

	var doc DishDocument
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &doc))
	assert.Equal(t, "Risotto ai Funghi Porcini", doc.Name)
	assert.Equal(t, models.CategoryFirstCourse, doc.Category)
	assert.True(t, doc.IsActive)

	require.NoError(t, idx.IndexDishes(context.Background(), nil))
	cluster.mu.Lock()
	assert.Len(t, cluster.bulkBodies, 1)
	cluster.mu.Unlock()
}

func TestIndexDishes_ItemErrors(t *testing.T) {
	idx, cluster := newTestIndex(t)
	cluster.mu.Lock()
	cluster.bulkErrors = true
	cluster.mu.Unlock()

	err := idx.IndexDishes(context.Background(), []models.Dish{{ID: uuid.New(), Name: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad price")
}

func TestSearch(t *testing.T) {
	idx, cluster := newTestIndex(t)

	total, docs, err := idx.Search(context.Background(), "risoto", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, docs, 1)
	assert.Equal(t, "Risotto ai Funghi Porcini", docs[0].Name)

	cluster.mu.Lock()
	defer cluster.mu.Unlock()
	query := cluster.searchBody["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "risoto", query["query"])
	assert.Equal(t, "AUTO", query["fuzziness"])
	assert.EqualValues(t, 10, cluster.searchBody["size"])
}
