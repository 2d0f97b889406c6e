package content

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/content-api/content-api/internal/config"
	controller "github.com/content-api/content-api/internal/db/controller/content"
	"github.com/content-api/content-api/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&models.Content{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	app := fiber.New()

	repo, err := controller.New(db)
	require.NoError(t, err)

	s := &Service{}
	require.NoError(t, s.Init(app, &config.Config{}, repo))

	return app, db
}

// call sends a request, body is sent as json unless it is empty.
func call(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(b)
}

func seed(t *testing.T, app *fiber.App, bodies ...string) {
	t.Helper()

	for _, body := range bodies {
		status, resp := call(t, app, http.MethodPost, "/", body)
		require.Equal(t, http.StatusCreated, status, resp)
	}
}

func TestInit(t *testing.T) {
	repo, err := controller.New(setupTestDB(t))
	require.NoError(t, err)

	s := &Service{}
	require.Error(t, s.Init(nil, &config.Config{}, repo))
	require.Error(t, s.Init(fiber.New(), nil, repo))
	require.Error(t, s.Init(fiber.New(), &config.Config{}, nil))
	require.NoError(t, s.Init(fiber.New(), &config.Config{}, repo))
}

// removeRecordOnWrite makes db delete record id right before its next
// update or delete statement on the content table, the way a concurrent
// request would.
func removeRecordOnWrite(t *testing.T, db *gorm.DB, id uint64) {
	t.Helper()

	remove := func(tx *gorm.DB) {
		if tx.Statement.Table != models.ContentTable {
			return
		}

		tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM content WHERE id = ?", id)
	}

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:remove_before_update", remove))
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:remove_before_delete", remove))
}

func TestCreateThenGet(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := call(t, app, http.MethodPost, "/", `{"name": "Salix", "location": "Banks"}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"name": "Salix", "location": "Banks"}`, body)

	status, body = call(t, app, http.MethodGet, "/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"Content": {"id": 1, "name": "Salix", "location": "Banks"}}`, body)
}

func TestCreateEchoesSubmittedObject(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := call(t, app, http.MethodPost, "/", `{"name": "Salix", "extra": [1, 2]}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"name": "Salix", "extra": [1, 2]}`, body)

	status, body = call(t, app, http.MethodGet, "/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"Content": {"id": 1, "name": "Salix", "location": null}}`, body)
}

func TestCreateNullLocation(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := call(t, app, http.MethodPost, "/", `{"name": "Salix", "location": null}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"name": "Salix", "location": null}`, body)

	status, body = call(t, app, http.MethodGet, "/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"Content": {"id": 1, "name": "Salix", "location": null}}`, body)
}

func TestCreateDuplicateName(t *testing.T) {
	app, _ := setupTestApp(t)

	seed(t, app, `{"name": "Salix", "location": "Banks"}`)

	status, body := call(t, app, http.MethodPost, "/", `{"name": "Salix", "location": "Floodplain"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error": "Duplicate content name"}`, body)

	_, body = call(t, app, http.MethodGet, "/", "")
	assert.JSONEq(t, `{"Contents": [{"id": 1, "name": "Salix", "location": "Banks"}]}`, body)
}

func TestCreateRejected(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantError   string
	}{
		{name: "not declared as json", body: `{"name": "Salix"}`, contentType: fiber.MIMETextPlain, wantError: MsgBadRequest},
		{name: "no body", body: "", contentType: fiber.MIMEApplicationJSON, wantError: MsgBadRequest},
		{name: "malformed json", body: `{"name": `, contentType: fiber.MIMEApplicationJSON, wantError: MsgBadRequest},
		{name: "array", body: `[{"name": "Salix"}]`, contentType: fiber.MIMEApplicationJSON, wantError: MsgBadRequest},
		{name: "empty object", body: `{}`, contentType: fiber.MIMEApplicationJSON, wantError: MsgBadRequest},
		{name: "null", body: `null`, contentType: fiber.MIMEApplicationJSON, wantError: MsgBadRequest},
		{name: "name missing", body: `{"location": "Banks"}`, contentType: fiber.MIMEApplicationJSON, wantError: MsgNameNotString},
		{name: "name is a number", body: `{"name": 5}`, contentType: fiber.MIMEApplicationJSON, wantError: MsgNameNotString},
		{name: "name is null", body: `{"name": null}`, contentType: fiber.MIMEApplicationJSON, wantError: MsgNameNotString},
		{name: "location is a number", body: `{"name": "Salix", "location": 5}`, contentType: fiber.MIMEApplicationJSON, wantError: MsgLocationNotString},
		{name: "name too long", body: `{"name": "` + strings.Repeat("a", 121) + `"}`, contentType: fiber.MIMEApplicationJSON, wantError: MsgNameTooLong},
		{
			name:        "location too long",
			body:        `{"name": "Salix", "location": "` + strings.Repeat("a", 121) + `"}`,
			contentType: fiber.MIMEApplicationJSON,
			wantError:   MsgLocationTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setupTestApp(t)

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, tt.contentType)

			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			defer func() {
				_ = resp.Body.Close()
			}()

			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, `{"error": "`+tt.wantError+`"}`, string(b))

			_, list := call(t, app, http.MethodGet, "/", "")
			assert.JSONEq(t, `{"Contents": []}`, list)
		})
	}
}

func TestList(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := call(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"Contents": []}`, body)

	seed(t, app, `{"name": "Acer Negundo", "location": "Floodplain"}`, `{"name": "Salix"}`)

	status, body = call(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"Contents": [
		{"id": 1, "name": "Acer Negundo", "location": "Floodplain"},
		{"id": 2, "name": "Salix", "location": null}
	]}`, body)
}

func TestGetNotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	for _, path := range []string{"/1", "/0", "/-3"} {
		status, body := call(t, app, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.JSONEq(t, `{"error": "Not found"}`, body, path)
	}

	// not an integer, the route does not match
	status, _ := call(t, app, http.MethodGet, "/abc", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantBody   string
		wantRecord string
	}{
		{
			name:       "replace name and location",
			path:       "/1",
			body:       `{"name": "Alnus Rhombifolia", "location": "Gravel Bar"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"name": "Alnus Rhombifolia", "location": "Gravel Bar"}`,
			wantRecord: `{"Content": {"id": 1, "name": "Alnus Rhombifolia", "location": "Gravel Bar"}}`,
		},
		{
			name:       "missing location clears it",
			path:       "/1",
			body:       `{"name": "Salix"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"name": "Salix"}`,
			wantRecord: `{"Content": {"id": 1, "name": "Salix", "location": null}}`,
		},
		{
			name:       "unknown id wins over bad payload",
			path:       "/99",
			body:       `{"name": 5}`,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error": "Not found"}`,
			wantRecord: `{"Content": {"id": 1, "name": "Salix", "location": "Banks"}}`,
		},
		{
			name:       "name missing",
			path:       "/1",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "Content name is required"}`,
			wantRecord: `{"Content": {"id": 1, "name": "Salix", "location": "Banks"}}`,
		},
		{
			name:       "name not a string",
			path:       "/1",
			body:       `{"name": ["Salix"]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "Content name not a string"}`,
			wantRecord: `{"Content": {"id": 1, "name": "Salix", "location": "Banks"}}`,
		},
		{
			name:       "location not a string",
			path:       "/1",
			body:       `{"name": "Salix", "location": false}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "Location not a string"}`,
			wantRecord: `{"Content": {"id": 1, "name": "Salix", "location": "Banks"}}`,
		},
		{
			name:       "name of another record",
			path:       "/1",
			body:       `{"name": "Acer Negundo"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "Duplicate content name"}`,
			wantRecord: `{"Content": {"id": 1, "name": "Salix", "location": "Banks"}}`,
		},
		{
			name:       "null location",
			path:       "/1",
			body:       `{"name": "Salix", "location": null}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "Location not a string"}`,
			wantRecord: `{"Content": {"id": 1, "name": "Salix", "location": "Banks"}}`,
		},
		{
			name:       "not an object",
			path:       "/1",
			body:       `"Salix"`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "Bad request"}`,
			wantRecord: `{"Content": {"id": 1, "name": "Salix", "location": "Banks"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setupTestApp(t)
			seed(t, app, `{"name": "Salix", "location": "Banks"}`, `{"name": "Acer Negundo"}`)

			status, body := call(t, app, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.JSONEq(t, tt.wantBody, body)

			_, record := call(t, app, http.MethodGet, "/1", "")
			assert.JSONEq(t, tt.wantRecord, record)
		})
	}
}

func TestDelete(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := call(t, app, http.MethodDelete, "/99", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error": "Not found"}`, body)

	seed(t, app, `{"name": "Salix", "location": "Banks"}`)

	status, body = call(t, app, http.MethodDelete, "/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"Delete": true}`, body)

	status, body = call(t, app, http.MethodGet, "/1", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error": "Not found"}`, body)

	// ids are not reused
	seed(t, app, `{"name": "Salix", "location": "Banks"}`)

	status, _ = call(t, app, http.MethodGet, "/2", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestRecordRemovedDuringRequest(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		app, db := setupTestApp(t)
		seed(t, app, `{"name": "Salix", "location": "Banks"}`)
		removeRecordOnWrite(t, db, 1)

		status, body := call(t, app, http.MethodPut, "/1", `{"name": "Salix renamed"}`)
		assert.Equal(t, http.StatusNotFound, status)
		assert.JSONEq(t, `{"error": "Not found"}`, body)

		_, found := call(t, app, http.MethodPost, "/search", `{"value": "renamed"}`)
		assert.JSONEq(t, `{"Contents": []}`, found)
	})

	t.Run("delete", func(t *testing.T) {
		app, db := setupTestApp(t)
		seed(t, app, `{"name": "Salix", "location": "Banks"}`)
		removeRecordOnWrite(t, db, 1)

		status, body := call(t, app, http.MethodDelete, "/1", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.JSONEq(t, `{"error": "Not found"}`, body)
	})
}

func TestSearch(t *testing.T) {
	app, _ := setupTestApp(t)
	seed(t, app,
		`{"name": "Salix", "location": "Banks"}`,
		`{"name": "Acer Negundo", "location": "Floodplain"}`,
		`{"name": "Alnus Rhombifolia", "location": "Gravel Bar"}`,
	)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "substring at any position",
			body:       `{"value": "n"}`,
			wantStatus: http.StatusOK,
			wantBody: `{"Contents": [
				{"id": 2, "name": "Acer Negundo", "location": "Floodplain"},
				{"id": 3, "name": "Alnus Rhombifolia", "location": "Gravel Bar"}
			]}`,
		},
		{
			name:       "empty value matches all",
			body:       `{"value": ""}`,
			wantStatus: http.StatusOK,
			wantBody: `{"Contents": [
				{"id": 1, "name": "Salix", "location": "Banks"},
				{"id": 2, "name": "Acer Negundo", "location": "Floodplain"},
				{"id": 3, "name": "Alnus Rhombifolia", "location": "Gravel Bar"}
			]}`,
		},
		{
			name:       "no match",
			body:       `{"value": "%"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"Contents": []}`,
		},
		{
			name:       "value not a string",
			body:       `{"value": 1}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "Search value should be a string"}`,
		},
		{
			name:       "value missing",
			body:       `{"name": "Salix"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "Search value should be a string"}`,
		},
		{
			name:       "empty object",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "Bad request"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, http.MethodPost, "/search", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.JSONEq(t, tt.wantBody, body)
		})
	}
}

func TestStoreFailure(t *testing.T) {
	app, db := setupTestApp(t)
	require.NoError(t, db.Migrator().DropTable(&models.Content{}))

	status, _ := call(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, status)

	status, _ = call(t, app, http.MethodPost, "/", `{"name": "Salix"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
}
