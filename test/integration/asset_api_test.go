package integration

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"asset-management-be/internal/bootstrap"
	"asset-management-be/internal/config"
	"asset-management-be/internal/entity"
	"asset-management-be/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type apiResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) (int, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var res apiResponse
	_ = json.NewDecoder(resp.Body).Decode(&res)
	return resp.StatusCode, res
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	status, res := call(t, app, "POST", "/api/login/", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, fiber.StatusOK, status, res.Message)
	var data struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	return data.Access
}

func TestAssetAPI(t *testing.T) {
	db := openDB(t)
	cfg := config.Load()
	container := bootstrap.NewContainer(db, cfg)
	defer container.Close()
	app := server.New(cfg, container).GetApp()

	suffix := uuid.NewString()[:8]
	adminName, vendorName, userName := "it-admin-"+suffix, "it-vendor-"+suffix, "it-user-"+suffix
	password := "integration-pass"

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	adminId := uuid.New()
	require.NoError(t, db.Exec(
		"INSERT INTO users (id, username, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())",
		adminId, adminName, string(hash), string(entity.UserRoleAdmin)).Error)

	defer func() {
		db.Exec("DELETE FROM asset_fields WHERE asset_id IN (SELECT a.id FROM assets a JOIN users u ON u.id = a.vendor_id WHERE u.username LIKE ?)", "it-%-"+suffix)
		db.Exec("DELETE FROM assets WHERE vendor_id IN (SELECT id FROM users WHERE username LIKE ?)", "it-%-"+suffix)
		db.Exec("DELETE FROM form_fields WHERE category_id IN (SELECT id FROM categories WHERE name = ?)", "Laptop-"+suffix)
		db.Exec("DELETE FROM categories WHERE name = ?", "Laptop-"+suffix)
		db.Exec("DELETE FROM users WHERE username LIKE ?", "it-%-"+suffix)
	}()

	status, _ := call(t, app, "POST", "/api/register/", "",
		`{"username":"`+vendorName+`","password":"`+password+`","password2":"`+password+`","role":"vendor"}`)
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = call(t, app, "POST", "/api/register/", "",
		`{"username":"`+userName+`","password":"`+password+`","password2":"`+password+`"}`)
	require.Equal(t, fiber.StatusCreated, status)

	adminToken := login(t, app, adminName, password)
	vendorToken := login(t, app, vendorName, password)
	userToken := login(t, app, userName, password)

	// Schema
	status, res := call(t, app, "POST", "/api/categories/", adminToken,
		`{"name":"Laptop-`+suffix+`","fields":[{"name":"ram","label":"RAM","field_type":"number","required":true},{"name":"os","label":"OS","field_type":"text"}]}`)
	require.Equal(t, fiber.StatusCreated, status, res.Message)
	var category struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &category))

	status, _ = call(t, app, "POST", "/api/categories/", vendorToken, `{"name":"Nope"}`)
	assert.Equal(t, fiber.StatusForbidden, status)

	// Assets
	status, res = call(t, app, "POST", "/api/assets/", vendorToken,
		`{"name":"ThinkPad","category":"`+category.Id+`","fields":[{"name":"ram","value":"16"},{"name":"os","value":"Linux"}]}`)
	require.Equal(t, fiber.StatusCreated, status, res.Message)
	var asset struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &asset))

	status, res = call(t, app, "POST", "/api/assets/", vendorToken,
		`{"name":"Bad","category":"`+category.Id+`","fields":[{"name":"ram","value":"lots"}]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, res.Errors, "ram")

	status, _ = call(t, app, "GET", "/api/assets/"+asset.Id+"/", userToken, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "DELETE", "/api/categories/"+category.Id+"/", adminToken, "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = call(t, app, "GET", "/api/assets/my_assets/", vendorToken, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, "GET", "/api/assets/", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
