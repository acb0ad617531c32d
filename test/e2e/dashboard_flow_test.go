package e2e

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/transaction-dashboard/internal/cache"
	"github.com/nimasrn/transaction-dashboard/internal/feed"
	"github.com/nimasrn/transaction-dashboard/internal/handlers"
	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/internal/repository"
	"github.com/nimasrn/transaction-dashboard/internal/services"
	xhttp "github.com/nimasrn/transaction-dashboard/pkg/http"
	"github.com/nimasrn/transaction-dashboard/pkg/pg"
	"github.com/nimasrn/transaction-dashboard/test/fixtures"
	"github.com/nimasrn/transaction-dashboard/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type TestEnvironment struct {
	DB        *pg.DB
	Redis     *miniredis.Miniredis
	Feed      *httptest.Server
	FeedBody  atomic.Value
	FeedCalls atomic.Int64
	Engine    *xhttp.Engine
	client    *fasthttp.Client
}

func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	env := &TestEnvironment{}
	env.FeedBody.Store(fixtures.FeedJSON())

	env.Feed = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.FeedCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(env.FeedBody.Load().([]byte))
	}))
	t.Cleanup(env.Feed.Close)

	env.DB = helpers.SetupTestDB(t)
	mr, adapter := helpers.SetupTestRedis(t)
	env.Redis = mr
	aggCache := cache.NewAggregateCache(adapter, time.Minute)

	transactionRepo := repository.NewTransactionRepository(env.DB)
	feedClient := feed.NewClient(feed.Config{URL: env.Feed.URL, Timeout: 5 * time.Second})

	transactionService := services.NewTransactionService(transactionRepo)
	aggregationService := services.NewAggregationService(transactionRepo, aggCache)
	dashboardService := services.NewDashboardService(transactionService, aggregationService)
	seedService := services.NewSeedService(feedClient, transactionRepo, aggCache)
	healthService := services.NewHealthService(env.DB, aggCache)

	env.Engine = xhttp.CreateServer()
	env.Engine.Use(xhttp.RecoverMiddleware)
	env.Engine.Use(xhttp.CORSMiddleware("*"))
	env.Engine.Use(xhttp.TimeoutMiddleware(5*time.Second, "/api/seed"))

	g := env.Engine.Router.Group("/api")
	handlers.RegisterSeedRoutes(g, handlers.NewSeedHandler(seedService))
	handlers.RegisterTransactionRoutes(g, handlers.NewTransactionHandler(transactionService, aggregationService, dashboardService))
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(healthService))
	env.Engine.DoRouting()

	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = env.Engine.Server.Serve(ln) }()
	t.Cleanup(func() {
		_ = env.Engine.Server.Shutdown()
		_ = ln.Close()
	})

	env.client = &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
	return env
}

// get returns status and body of a GET against the in-memory server.
func (env *TestEnvironment) get(t *testing.T, path string) (int, []byte) {
	t.Helper()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://dashboard.test" + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	require.NoError(t, env.client.DoTimeout(req, resp, 10*time.Second))

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return resp.StatusCode(), body
}

func (env *TestEnvironment) getJSON(t *testing.T, path string, dst any) int {
	t.Helper()
	status, body := env.get(t, path)
	require.NoError(t, json.Unmarshal(body, dst), string(body))
	return status
}

func (env *TestEnvironment) seed(t *testing.T) {
	t.Helper()
	status, body := env.get(t, "/api/seed")
	require.Equal(t, 200, status)
	require.Equal(t, "Database seeded successfully", string(body))
}

func TestE2E_SeedAndList(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.seed(t)

	var page model.TransactionPage
	status := env.getJSON(t, "/api/transactions", &page)
	assert.Equal(t, 200, status)
	assert.Equal(t, int64(10), page.Total)
	assert.Len(t, page.Transactions, 10)

	status = env.getJSON(t, "/api/transactions?search=gold&month=7&page=1&perPage=1", &page)
	assert.Equal(t, 200, status)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, int64(7), page.Transactions[0].ID)

	status = env.getJSON(t, "/api/transactions?search=615.89", &page)
	assert.Equal(t, 200, status)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, "Mens Cotton Jacket", page.Transactions[0].Title)
	assert.Equal(t, 7, page.Transactions[0].Month)
}

func TestE2E_Reseed(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.seed(t)
	env.seed(t)

	var page model.TransactionPage
	env.getJSON(t, "/api/transactions?perPage=100", &page)
	assert.Equal(t, int64(10), page.Total)

	t.Run("new feed replaces the store and the cached aggregates", func(t *testing.T) {
		var stats model.Statistics
		require.Equal(t, 200, env.getJSON(t, "/api/transactions/stats?month=7", &stats))
		assert.Equal(t, int64(2), stats.TotalSoldItems)

		smaller, err := json.Marshal(fixtures.Feed[:3])
		require.NoError(t, err)
		env.FeedBody.Store(smaller)
		env.seed(t)

		env.getJSON(t, "/api/transactions?perPage=100", &page)
		assert.Equal(t, int64(3), page.Total)

		require.Equal(t, 200, env.getJSON(t, "/api/transactions/stats?month=7", &stats))
		assert.Equal(t, int64(1), stats.TotalSoldItems)
		assert.Zero(t, stats.TotalNotSoldItems)
	})
}

func TestE2E_Aggregates(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.seed(t)

	var stats model.Statistics
	require.Equal(t, 200, env.getJSON(t, "/api/transactions/stats?month=7", &stats))
	assert.InDelta(t, 815.88, stats.TotalSale, 0.001)
	assert.Equal(t, int64(2), stats.TotalSoldItems)
	assert.Equal(t, int64(1), stats.TotalNotSoldItems)

	var bars []model.BarChartEntry
	require.Equal(t, 200, env.getJSON(t, "/api/transactions/bar-chart?month=7", &bars))
	require.Len(t, bars, 10)
	var sum int64
	for i, b := range bars {
		assert.Equal(t, model.PriceRanges[i].Label, b.Range)
		sum += b.Count
	}
	assert.Equal(t, int64(3), sum)
	assert.Equal(t, int64(2), bars[0].Count)
	assert.Equal(t, int64(1), bars[6].Count)

	var pie model.PieChart
	require.Equal(t, 200, env.getJSON(t, "/api/transactions/pie-chart?month=7", &pie))
	assert.Equal(t, model.PieChart{Sold: 2, NotSold: 1}, pie)
	assert.Equal(t, stats.Count(), pie.Sold+pie.NotSold)
}

func TestE2E_EmptyMonth(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.seed(t)

	var msg struct {
		Message string `json:"message"`
	}
	assert.Equal(t, 404, env.getJSON(t, "/api/transactions/stats?month=2", &msg))
	assert.Equal(t, "No data found for the selected month", msg.Message)

	var bars []model.BarChartEntry
	require.Equal(t, 200, env.getJSON(t, "/api/transactions/bar-chart?month=2", &bars))
	assert.Len(t, bars, 10)

	var combined struct {
		Transactions model.TransactionPage `json:"transactions"`
		Statistics   map[string]any        `json:"statistics"`
		PieChartData model.PieChart        `json:"pieChartData"`
	}
	require.Equal(t, 200, env.getJSON(t, "/api/transactions/combined-data?month=2", &combined))
	assert.Equal(t, "No data found for the selected month", combined.Statistics["message"])
	assert.Empty(t, combined.Transactions.Transactions)
	assert.Equal(t, model.PieChart{}, combined.PieChartData)
}

func TestE2E_CombinedMatchesParts(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.seed(t)

	var combined struct {
		Transactions model.TransactionPage `json:"transactions"`
		Statistics   model.Statistics      `json:"statistics"`
		BarChartData []model.BarChartEntry `json:"barChartData"`
		PieChartData model.PieChart        `json:"pieChartData"`
	}
	require.Equal(t, 200, env.getJSON(t, "/api/transactions/combined-data?month=10", &combined))

	var page model.TransactionPage
	env.getJSON(t, "/api/transactions?month=10", &page)
	var stats model.Statistics
	env.getJSON(t, "/api/transactions/stats?month=10", &stats)
	var bars []model.BarChartEntry
	env.getJSON(t, "/api/transactions/bar-chart?month=10", &bars)
	var pie model.PieChart
	env.getJSON(t, "/api/transactions/pie-chart?month=10", &pie)

	assert.Equal(t, page.Total, combined.Transactions.Total)
	assert.Equal(t, stats, combined.Statistics)
	assert.Equal(t, bars, combined.BarChartData)
	assert.Equal(t, pie, combined.PieChartData)
}

func TestE2E_Errors(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.seed(t)

	var msg struct {
		Message string `json:"message"`
	}
	assert.Equal(t, 400, env.getJSON(t, "/api/transactions/stats", &msg))
	assert.Equal(t, "Month is required for statistics", msg.Message)

	assert.Equal(t, 400, env.getJSON(t, "/api/transactions/pie-chart?month=abc", &msg))
	assert.Equal(t, "Month must be a valid integer", msg.Message)

	assert.Equal(t, 404, env.getJSON(t, "/api/transactions/999", &msg))
	assert.Equal(t, "Transaction not found", msg.Message)

	var txn model.Transaction
	assert.Equal(t, 200, env.getJSON(t, "/api/transactions/5", &txn))
	assert.Equal(t, float64(6950), txn.Price)
}

func TestE2E_SeedFailureKeepsStore(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.seed(t)

	env.FeedBody.Store([]byte(`not json`))
	status, body := env.get(t, "/api/seed")
	assert.Equal(t, 500, status)
	assert.Equal(t, "Error seeding database", string(body))

	var page model.TransactionPage
	env.getJSON(t, "/api/transactions", &page)
	assert.Equal(t, int64(10), page.Total)
}

func TestE2E_Health(t *testing.T) {
	env := setupE2EEnvironment(t)

	status, body := env.get(t, "/api/health")
	assert.Equal(t, 200, status)
	assert.Equal(t, "success", string(body))
}
