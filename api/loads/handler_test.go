package loads

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cesliva/quant-sub005/core/model"
	infralogger "github.com/Cesliva/quant-sub005/infra/logger"
	"github.com/Cesliva/quant-sub005/internal/eventbus"
	"github.com/Cesliva/quant-sub005/internal/loadstore"
)

func newHandler(t *testing.T) (http.Handler, *loadstore.Store) {
	t.Helper()
	store := loadstore.New(eventbus.New[loadstore.ChangeEvent]())
	return NewHandler(store, &infralogger.NopLogger{}), store
}

func jsonDecode(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGet(t *testing.T) {
	h, _ := newHandler(t)
	rec := do(h, http.MethodPost, "/api/loads",
		`{"name":"Stair stringers","total_hours":40,"start_date":"2025-06-02"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Load
	require.NoError(t, jsonDecode(rec, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.SourceManual, created.Source)

	rec = do(h, http.MethodGet, "/api/loads/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/api/loads/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateValidation(t *testing.T) {
	h, _ := newHandler(t)
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"negative hours", `{"name":"x","total_hours":-1,"start_date":"2025-06-02"}`},
		{"bad start date", `{"name":"x","total_hours":1,"start_date":"02/06/2025"}`},
		{"bad end date", `{"name":"x","total_hours":1,"start_date":"2025-06-02","end_date":"soon"}`},
	}
	for _, c := range cases {
		rec := do(h, http.MethodPost, "/api/loads", c.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, c.name)
	}
}

func TestList(t *testing.T) {
	h, store := newHandler(t)
	store.Put(model.Load{Name: "a", TotalHours: 1, StartDate: "2025-06-02"})
	store.Put(model.Load{Name: "b", TotalHours: 2, StartDate: "2025-06-02"})

	rec := do(h, http.MethodGet, "/api/loads", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Load
	require.NoError(t, jsonDecode(rec, &list))
	assert.Len(t, list, 2)
}

func TestDeleteStatusMapping(t *testing.T) {
	h, store := newHandler(t)
	manual := store.Put(model.Load{Name: "m", TotalHours: 1, StartDate: "2025-06-02"})
	project := store.Put(model.Load{Name: "p", Source: model.SourceProject, TotalHours: 1, StartDate: "2025-06-02"})

	assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/api/loads/"+manual.ID, "").Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodDelete, "/api/loads/"+project.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, "/api/loads/gone", "").Code)
}

func TestOverrideRoutes(t *testing.T) {
	h, store := newHandler(t)
	l := store.Put(model.Load{Name: "m", TotalHours: 40, StartDate: "2025-06-02"})

	rec := do(h, http.MethodPut, "/api/loads/"+l.ID+"/overrides/2025-06-04", `{"hours":6}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	got, _ := store.Get(l.ID)
	assert.Equal(t, 6.0, got.Overrides["2025-06-04"])

	rec = do(h, http.MethodPut, "/api/loads/"+l.ID+"/overrides/2025-06-04", `{"hours":-2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPut, "/api/loads/"+l.ID+"/overrides/someday", `{"hours":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodDelete, "/api/loads/"+l.ID+"/overrides/2025-06-04", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	got, _ = store.Get(l.ID)
	assert.Empty(t, got.Overrides)
}
