package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	minOrders     = 15
	maxOrders     = 60
	numWorkers    = 5
	serverAddress = "http://localhost:8080"
)

var symbols = []string{"AAPL", "GOOGL", "MSFT", "AMZN", "META"}

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// routeStats tracks performance statistics for an API endpoint
type routeStats struct {
	name       string
	durations  []time.Duration
	totalCalls int
	failures   int
	mu         sync.Mutex
}

func (rs *routeStats) record(d time.Duration, ok bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.durations = append(rs.durations, d)
	rs.totalCalls++
	if !ok {
		rs.failures++
	}
}

// calculate computes min, max, mean, median, 95th and 99th percentile durations
func (rs *routeStats) calculate() (min, max, mean, median, p95, p99 time.Duration) {
	if len(rs.durations) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))
	median = rs.durations[len(rs.durations)/2]

	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// apiEnvelope mirrors the server's response envelope
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// simulationClient handles HTTP communication with the brokerage API
type simulationClient struct {
	httpClient *http.Client
	token      string
	stats      map[string]*routeStats
	statsMu    sync.Mutex
}

func newSimulationClient() *simulationClient {
	return &simulationClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		stats:      make(map[string]*routeStats),
	}
}

func (sc *simulationClient) routeStatsFor(name string) *routeStats {
	sc.statsMu.Lock()
	defer sc.statsMu.Unlock()
	rs, ok := sc.stats[name]
	if !ok {
		rs = &routeStats{name: name}
		sc.stats[name] = rs
	}
	return rs
}

func (sc *simulationClient) do(route, method, path, token string, body interface{}) (*apiEnvelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, serverAddress+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := sc.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		sc.routeStatsFor(route).record(duration, false)
		return nil, err
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		sc.routeStatsFor(route).record(duration, false)
		return nil, err
	}

	sc.routeStatsFor(route).record(duration, envelope.Success)
	if !envelope.Success {
		return &envelope, fmt.Errorf("%s %s: %s", method, path, envelope.Message)
	}
	return &envelope, nil
}

func (sc *simulationClient) login(username, password string) (string, error) {
	envelope, err := sc.do("login", http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var tokenData struct {
		Token string `json:"jwt_token"`
	}
	if err := json.Unmarshal(envelope.Data, &tokenData); err != nil {
		return "", err
	}
	return tokenData.Token, nil
}

type orderResult struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

func (sc *simulationClient) createOrder(token string, customerID uint, symbol, side string, size, price decimal.Decimal) (*orderResult, error) {
	envelope, err := sc.do("create_order", http.MethodPost, "/api/v1/orders", token, map[string]interface{}{
		"customer_id": customerID,
		"asset_name":  symbol,
		"side":        side,
		"size":        size,
		"price":       price,
	})
	if err != nil {
		return nil, err
	}

	var order orderResult
	if err := json.Unmarshal(envelope.Data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (sc *simulationClient) listOrders(token string, customerID uint, start, end time.Time) error {
	path := fmt.Sprintf("/api/v1/orders?customer_id=%d&start=%s&end=%s",
		customerID, start.Format(time.RFC3339), end.Format(time.RFC3339))
	_, err := sc.do("list_orders", http.MethodGet, path, token, nil)
	return err
}

func (sc *simulationClient) listAssets(token string, customerID uint) error {
	path := fmt.Sprintf("/api/v1/assets?customer_id=%d", customerID)
	_, err := sc.do("list_assets", http.MethodGet, path, token, nil)
	return err
}

func (sc *simulationClient) cancelOrder(token string, orderID uint) error {
	_, err := sc.do("cancel_order", http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", orderID), token, nil)
	return err
}

func (sc *simulationClient) matchOrder(token string, orderID uint) error {
	_, err := sc.do("match_order", http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/match", orderID), token, nil)
	return err
}

func main() {
	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()
	logger.Info().Msg("starting order simulation")

	sc := newSimulationClient()

	userToken, err := sc.login("user1", "user1password")
	if err != nil {
		logger.Fatal().Err(err).Msg("user login failed")
	}
	adminToken, err := sc.login("admin", "adminPassword")
	if err != nil {
		logger.Fatal().Err(err).Msg("admin login failed")
	}

	// user1 is customer 2 in the seeded database (admin is 1)
	const customerID = uint(2)

	totalOrders := rand.Intn(maxOrders-minOrders+1) + minOrders
	logger.Info().Int("orders", totalOrders).Msg("placing orders")

	orderIDs := make(chan uint, totalOrders)
	jobs := make(chan int, totalOrders)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				symbol := symbols[rand.Intn(len(symbols))]
				// Buys keep the seeded TRY balance in range; occasional
				// sells exercise the insufficient-stock path.
				side := "BUY"
				if rand.Intn(4) == 0 {
					side = "SELL"
				}
				size := decimal.NewFromInt(int64(rand.Intn(3) + 1))
				price := decimal.NewFromInt(int64(rand.Intn(5) + 1))

				order, err := sc.createOrder(userToken, customerID, symbol, side, size, price)
				if err != nil {
					logger.Debug().Err(err).Str("side", side).Str("symbol", symbol).Msg("order rejected")
					continue
				}
				orderIDs <- order.ID
			}
		}()
	}

	for i := 0; i < totalOrders; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(orderIDs)

	// Read traffic alongside the lifecycle transitions
	if err := sc.listAssets(userToken, customerID); err != nil {
		logger.Warn().Err(err).Msg("asset listing failed")
	}
	if err := sc.listOrders(userToken, customerID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour)); err != nil {
		logger.Warn().Err(err).Msg("order listing failed")
	}

	// The operator cancels some pending orders and matches the rest
	for orderID := range orderIDs {
		if rand.Intn(3) == 0 {
			if err := sc.cancelOrder(userToken, orderID); err != nil {
				logger.Warn().Err(err).Uint("order_id", orderID).Msg("cancel failed")
			}
			continue
		}
		if err := sc.matchOrder(adminToken, orderID); err != nil {
			logger.Warn().Err(err).Uint("order_id", orderID).Msg("match failed")
		}
	}

	printStats(sc)
}

func printStats(sc *simulationClient) {
	names := make([]string, 0, len(sc.stats))
	for name := range sc.stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rs := sc.stats[name]
		min, max, mean, median, p95, p99 := rs.calculate()
		log.Info().
			Str("route", rs.name).
			Int("calls", rs.totalCalls).
			Int("failures", rs.failures).
			Dur("min", min).
			Dur("max", max).
			Dur("mean", mean).
			Dur("median", median).
			Dur("p95", p95).
			Dur("p99", p99).
			Msg("route statistics")
	}
}
