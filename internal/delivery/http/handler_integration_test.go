package http

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/feedlink/backend/config"
	"github.com/feedlink/backend/internal/domain"
	"github.com/feedlink/backend/internal/infrastructure/baselinker"
	"github.com/feedlink/backend/internal/infrastructure/xmlfeed"
	"github.com/feedlink/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

const (
	testPassword = "secret"
	testToken    = "bl-token"
)

const soteshopFeed = `<?xml version="1.0" encoding="UTF-8"?>
<offer><products>
  <product id="7">
    <producer_code>5907608645167</producer_code>
    <name>Drewniany pociąg</name>
    <producer>Jabadabadoo</producer>
    <category>Zabawki drewniane</category>
    <price gross="89.00" net="72.36"/>
    <stock quantity="12"/>
  </product>
  <product id="8">
    <name>Klocki sensoryczne</name>
    <producer>B.Toys</producer>
    <price gross="59.00" net="47.97"/>
    <stock quantity="0"/>
  </product>
</products></offer>`

const iofFeed = `<?xml version="1.0" encoding="UTF-8"?>
<products iof_version="3.0">
  <product id="101" code_on_card="5901234123457">
    <producer name="Baby Dan"/>
    <description><name xml:lang="pol">Bramka ochronna</name></description>
    <price gross="199.99" net="162.59"/>
    <stock quantity="5"/>
  </product>
</products>`

var fixedNow = time.Date(2024, 1, 31, 15, 45, 0, 0, time.UTC)

type testServer struct {
	router  *gin.Engine
	handler *Handler
}

// newTestServer wires the real services against fake supplier and BaseLinker servers
func newTestServer(t *testing.T, password, token string) *testServer {
	t.Helper()

	feeds := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/soteshop.xml":
			w.Write([]byte(soteshopFeed))
		case "/iof.xml":
			w.Write([]byte(iofFeed))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(feeds.Close)

	bl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-BLToken") != testToken {
			w.Write([]byte(`{"status":"ERROR","error_code":"ERROR_BAD_TOKEN","error_message":"Invalid user token"}`))
			return
		}
		switch r.FormValue("method") {
		case usecase.MethodGetInventoryCategories:
			w.Write([]byte(`{"status":"SUCCESS","categories":[{"category_id":1,"name":"Zabawki"}]}`))
		default:
			w.Write([]byte(`{"status":"ERROR","error_code":"ERROR_UNKNOWN_METHOD","error_message":"Unknown method"}`))
		}
	}))
	t.Cleanup(bl.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Auth: config.AuthConfig{Password: password},
		Feeds: map[string]config.FeedConfig{
			"jabadabadoo": {Name: "Jabadabadoo", URL: feeds.URL + "/soteshop.xml", Dialect: domain.DialectTagSoteshop},
			"kids":        {Name: "Kids Inspirations", URL: feeds.URL + "/iof.xml", Dialect: domain.DialectTagIOF},
			"down":        {Name: "Down", URL: feeds.URL + "/broken", Dialect: domain.DialectTagSoteshop},
		},
	}

	feedService := usecase.NewFeedService(
		xmlfeed.NewClient(xmlfeed.ClientConfig{Timeout: 5 * time.Second}, nil),
		xmlfeed.NewParser("pol"),
		cfg.FeedSources(),
		nil,
	)
	commandService := usecase.NewCommandService(
		usecase.NewCommandTranslator(81501),
		baselinker.NewClient(baselinker.Config{Token: token, BaseURL: bl.URL, Timeout: 5 * time.Second}, nil),
		nil,
	)

	handler := NewHandler(feedService, commandService, nil)
	handler.now = func() time.Time { return fixedNow }

	return &testServer{router: SetupRouter(cfg, handler, nil), handler: handler}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func authed(req *http.Request) *http.Request {
	req.Header.Set(PasswordHeader, testPassword)
	return req
}

func jsonBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

type conversionBody struct {
	Source    string                     `json:"source"`
	Dialect   string                     `json:"dialect"`
	Detected  string                     `json:"detected"`
	Summary   domain.FeedSummary         `json:"summary"`
	Producers []string                   `json:"producers"`
	Products  []domain.NormalizedProduct `json:"products"`
}

func TestHealthCheckEndpoint(t *testing.T) {
	srv := newTestServer(t, testPassword, testToken)

	w := srv.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	jsonBody(t, w, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "feedlink-backend", body["service"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPasswordGate(t *testing.T) {
	t.Run("rejects missing password", func(t *testing.T) {
		srv := newTestServer(t, testPassword, testToken)
		w := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/feeds", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"password incorrect"}`, w.Body.String())
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		srv := newTestServer(t, testPassword, testToken)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/feeds", nil)
		req.Header.Set(PasswordHeader, "guess")

		assert.Equal(t, http.StatusUnauthorized, srv.do(req).Code)
	})

	t.Run("accepts correct password", func(t *testing.T) {
		srv := newTestServer(t, testPassword, testToken)
		w := srv.do(authed(httptest.NewRequest(http.MethodGet, "/api/v1/feeds", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("open when no password configured", func(t *testing.T) {
		srv := newTestServer(t, "", testToken)
		w := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/feeds", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestListFeedsEndpoint(t *testing.T) {
	srv := newTestServer(t, testPassword, testToken)

	w := srv.do(authed(httptest.NewRequest(http.MethodGet, "/api/v1/feeds", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Feeds []struct {
			Key     string `json:"key"`
			Name    string `json:"name"`
			Dialect string `json:"dialect"`
		} `json:"feeds"`
		Total int `json:"total"`
	}
	jsonBody(t, w, &body)

	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Feeds, 3)
	assert.Equal(t, "down", body.Feeds[0].Key)
	assert.Equal(t, "jabadabadoo", body.Feeds[1].Key)
	assert.Equal(t, "soteshop_format", body.Feeds[1].Dialect)
	assert.Equal(t, "iof_format", body.Feeds[2].Dialect)
}

func TestConvertFeedEndpoint(t *testing.T) {
	srv := newTestServer(t, testPassword, testToken)

	t.Run("returns normalized products with summary", func(t *testing.T) {
		w := srv.do(authed(httptest.NewRequest(http.MethodPost, "/api/v1/feeds/jabadabadoo/convert", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		var body conversionBody
		jsonBody(t, w, &body)

		assert.Equal(t, "Jabadabadoo", body.Source)
		assert.Equal(t, "soteshop_format", body.Dialect)
		assert.Equal(t, "Soteshop", body.Detected)
		assert.Equal(t, []string{"B.Toys", "Jabadabadoo"}, body.Producers)
		require.Len(t, body.Products, 2)
		assert.Equal(t, "5907608645167", body.Products[0].EAN)
		assert.Equal(t, "23.0", body.Products[0].VAT)
		assert.Equal(t, 2, body.Summary.TotalProducts)
		assert.Equal(t, 1, body.Summary.WithStock)
	})

	t.Run("applies filters", func(t *testing.T) {
		w := srv.do(authed(httptest.NewRequest(http.MethodPost, "/api/v1/feeds/jabadabadoo/convert?producer=B.Toys", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		var body conversionBody
		jsonBody(t, w, &body)

		require.Len(t, body.Products, 1)
		assert.Equal(t, "8", body.Products[0].ProductID)
		assert.Equal(t, 2, body.Summary.TotalProducts)
		assert.Equal(t, 1, body.Summary.AfterFilters)
	})

	t.Run("exports csv", func(t *testing.T) {
		w := srv.do(authed(httptest.NewRequest(http.MethodPost, "/api/v1/feeds/jabadabadoo/convert?format=csv&min_stock=1", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="jabadabadoo_20240131_154500.csv"`, w.Header().Get("Content-Disposition"))

		reader := csv.NewReader(bytes.NewReader(w.Body.Bytes()))
		reader.Comma = ';'
		records, err := reader.ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, domain.ProductColumns, records[0])
		assert.Equal(t, "7", records[1][0])
	})

	t.Run("exports xlsx", func(t *testing.T) {
		w := srv.do(authed(httptest.NewRequest(http.MethodPost, "/api/v1/feeds/kids/convert?format=xlsx", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "kids_inspirations_20240131_154500.xlsx")
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
	})

	errorCases := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown source", "/api/v1/feeds/nope/convert", http.StatusNotFound},
		{"upstream failure", "/api/v1/feeds/down/convert", http.StatusBadGateway},
		{"unsupported format", "/api/v1/feeds/kids/convert?format=pdf", http.StatusBadRequest},
		{"negative min stock", "/api/v1/feeds/kids/convert?min_stock=-1", http.StatusBadRequest},
		{"non-numeric min stock", "/api/v1/feeds/kids/convert?min_stock=abc", http.StatusBadRequest},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			w := srv.do(authed(httptest.NewRequest(http.MethodPost, tc.path, nil)))

			assert.Equal(t, tc.status, w.Code)
			var body map[string]interface{}
			jsonBody(t, w, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestConvertUploadEndpoint(t *testing.T) {
	srv := newTestServer(t, testPassword, testToken)

	t.Run("raw body is detected", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader(iofFeed)))
		req.Header.Set("Content-Type", "application/xml")
		w := srv.do(req)

		require.Equal(t, http.StatusOK, w.Code)
		var body conversionBody
		jsonBody(t, w, &body)
		assert.Equal(t, usecase.UploadSourceName, body.Source)
		assert.Equal(t, "IOF 3.0", body.Detected)
		require.Len(t, body.Products, 1)
		assert.Equal(t, "Bramka ochronna", body.Products[0].Name)
		assert.Equal(t, "Baby Dan", body.Products[0].Producer)
	})

	t.Run("multipart file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "feed.xml")
		require.NoError(t, err)
		_, err = part.Write([]byte(soteshopFeed))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/convert", &buf))
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := srv.do(req)

		require.Equal(t, http.StatusOK, w.Code)
		var body conversionBody
		jsonBody(t, w, &body)
		assert.Equal(t, "Soteshop", body.Detected)
		assert.Len(t, body.Products, 2)
	})

	t.Run("multipart without file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("note", "no file"))
		require.NoError(t, mw.Close())

		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/convert", &buf))
		req.Header.Set("Content-Type", mw.FormDataContentType())

		assert.Equal(t, http.StatusBadRequest, srv.do(req).Code)
	})

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"unclosed document", "<products><product>", http.StatusUnprocessableEntity},
		{"unknown shape", "<rss><channel/></rss>", http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader(tc.body)))
			req.Header.Set("Content-Type", "application/xml")

			assert.Equal(t, tc.status, srv.do(req).Code)
		})
	}
}

func TestCommandEndpoints(t *testing.T) {
	post := func(srv *testServer, path, body string) *httptest.ResponseRecorder {
		req := authed(httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		req.Header.Set("Content-Type", "application/json")
		return srv.do(req)
	}

	t.Run("translate returns the call descriptor", func(t *testing.T) {
		srv := newTestServer(t, testPassword, testToken)
		w := post(srv, "/api/v1/commands/translate", `{"command":"get product details 42"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var body domain.CommandResult
		jsonBody(t, w, &body)
		assert.Equal(t, usecase.MethodGetInventoryProductsData, body.Method)
		assert.Equal(t, float64(81501), body.Parameters["inventory_id"])
		assert.Equal(t, []interface{}{"42"}, body.Parameters["products"])
		assert.Equal(t, "Getting details for product 42", body.Message)
	})

	t.Run("translate clarification has no method", func(t *testing.T) {
		srv := newTestServer(t, testPassword, testToken)
		w := post(srv, "/api/v1/commands/translate", `{"command":"update stock 12345 to 50"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		jsonBody(t, w, &body)
		assert.NotContains(t, body, "method")
		assert.Contains(t, body, "parameters")
		assert.Nil(t, body["parameters"])
		assert.NotEmpty(t, body["message"])
	})

	t.Run("translate keeps empty parameters", func(t *testing.T) {
		srv := newTestServer(t, testPassword, testToken)
		for _, cmd := range []string{"get inventories", "get warehouses"} {
			w := post(srv, "/api/v1/commands/translate", `{"command":"`+cmd+`"}`)

			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			jsonBody(t, w, &body)
			assert.Equal(t, map[string]interface{}{}, body["parameters"], cmd)
		}
	})

	t.Run("missing command", func(t *testing.T) {
		srv := newTestServer(t, testPassword, testToken)
		for _, path := range []string{"/api/v1/commands/translate", "/api/v1/commands/execute"} {
			w := post(srv, path, `{}`)
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
		}
	})

	t.Run("execute runs the call", func(t *testing.T) {
		srv := newTestServer(t, testPassword, testToken)
		w := post(srv, "/api/v1/commands/execute", `{"command":"get categories"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var body domain.CommandExecution
		jsonBody(t, w, &body)
		assert.Equal(t, usecase.MethodGetInventoryCategories, body.Result.Method)
		require.NotNil(t, body.Response)
		assert.Equal(t, "SUCCESS", body.Response.Status)
		assert.Contains(t, body.Response.Payload, "categories")
	})

	t.Run("execute clarification skips the API", func(t *testing.T) {
		srv := newTestServer(t, testPassword, "")
		w := post(srv, "/api/v1/commands/execute", `{"command":"search ean"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var body domain.CommandExecution
		jsonBody(t, w, &body)
		assert.Equal(t, "Please specify EAN number", body.Result.Message)
		assert.Nil(t, body.Response)
	})

	t.Run("execute without token", func(t *testing.T) {
		srv := newTestServer(t, testPassword, "")
		w := post(srv, "/api/v1/commands/execute", `{"command":"get inventories"}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("execute with rejected token", func(t *testing.T) {
		srv := newTestServer(t, testPassword, "wrong")
		w := post(srv, "/api/v1/commands/execute", `{"command":"get inventories"}`)

		require.Equal(t, http.StatusBadGateway, w.Code)
		var body struct {
			Error    string             `json:"error"`
			Response domain.APIResponse `json:"response"`
		}
		jsonBody(t, w, &body)
		assert.Equal(t, "ERROR_BAD_TOKEN", body.Response.ErrorCode)
		assert.Contains(t, body.Error, "ERROR_BAD_TOKEN")
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware())
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
