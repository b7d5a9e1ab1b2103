package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/jortega/bookshop"
	"github.com/jortega/bookshop/internal/checkout/checkoutlog"
	checkoutsqlite "github.com/jortega/bookshop/internal/checkout/checkoutlog/sqlite"
	"github.com/jortega/bookshop/internal/httpx"
	"github.com/jortega/bookshop/internal/payment"
	"github.com/jortega/bookshop/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	httpAddr := getEnv("BOOKSHOP_HTTP_ADDR", ":8080")
	successRate := getEnvFloat("BOOKSHOP_PAYMENT_SUCCESS_RATE", payment.DefaultSuccessRate)

	// The checkout audit log is optional. With a path configured it goes to
	// SQLite; otherwise an in-memory sink keeps the status endpoint working
	// for the process lifetime.
	var (
		logRepo   checkoutlog.Repository
		logReader checkoutlog.Reader
	)
	if path := os.Getenv("BOOKSHOP_CHECKOUT_LOG"); path != "" {
		repo, err := checkoutsqlite.Open(path)
		if err != nil {
			log.Fatalf("could not open checkout log at %s: %v", path, err)
		}
		defer repo.Close()
		logRepo, logReader = repo, repo
	} else {
		mem := checkoutlog.NewMemoryRepository()
		logRepo, logReader = mem, mem
	}

	store := bookshop.New(bookshop.Config{
		Processor:   payment.NewSimulator(successRate),
		CheckoutLog: logRepo,
	})

	handler := httpx.NewHandler(store, logReader)
	router := httpx.NewRouter(handler)

	log.Printf("bookshop API running on %s", httpAddr)
	if err := http.ListenAndServe(httpAddr, router); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatalf("invalid %s %q: %v", key, value, err)
	}
	return f
}
