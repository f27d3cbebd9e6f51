package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jcmexdev/habbo-store/internal/admin"
	"github.com/jcmexdev/habbo-store/internal/catalog"
	"github.com/jcmexdev/habbo-store/internal/httpx"
	"github.com/jcmexdev/habbo-store/internal/orders"
	"github.com/jcmexdev/habbo-store/internal/pkg/cache"
	"github.com/jcmexdev/habbo-store/internal/pkg/telemetry"
	"github.com/jcmexdev/habbo-store/internal/store"
	"github.com/jcmexdev/habbo-store/internal/upload"
)

func main() {
	ctx := context.Background()
	telemetry.InitLogger("storefront")

	shutdown, err := telemetry.SetupTracer(ctx, "storefront")
	if err != nil {
		// The storefront works without a collector; spans are just dropped.
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer shutdown(context.Background()) //nolint:errcheck
	}

	dbPath := getEnv("STORE_DB_PATH", "./data/store.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Fatalf("could not create data dir: %v", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("could not open store: %v", err)
	}
	defer st.Close()

	var listCache cache.Cache
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		listCache = cache.NewRedisCache(addr, "storefront")
	}

	catalogService := catalog.NewService(st, listCache)
	orderService := orders.NewService(st, st, catalogService)
	gate := admin.NewGate(getEnv("ADMIN_SECRET", "habbo2024"))

	var uploads upload.Store
	uploadDir := ""
	if cdnURL := getEnv("IMAGE_CDN_URL", ""); cdnURL != "" {
		uploads = upload.NewCDNStore(cdnURL, getEnv("IMAGE_CDN_KEY", ""))
	} else {
		uploadDir = getEnv("UPLOAD_DIR", "./data/uploads")
		local, err := upload.NewLocalStore(uploadDir, "/uploads")
		if err != nil {
			log.Fatalf("could not set up uploads: %v", err)
		}
		uploads = local
	}

	handler := httpx.NewHandler(catalogService, orderService, gate, uploads)
	router := httpx.NewRouter(handler, gate, uploadDir)

	httpAddr := getEnv("HTTP_ADDR", ":8080")
	slog.Info("storefront running", "addr", httpAddr, "db", dbPath)
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
