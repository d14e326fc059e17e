package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jfarfanc/ptap_monitor/internal/inventory"
	"github.com/jfarfanc/ptap_monitor/internal/services/gateway/app"
	"github.com/jfarfanc/ptap_monitor/internal/storage"
	"github.com/jfarfanc/ptap_monitor/pkg/mqttbus"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataDir := env("DATA_DIR", "./data")
	store, err := storage.Open(dataDir)
	if err != nil {
		log.Fatalf("storage open failed: %v", err)
	}
	chemicals, err := store.Chemicals()
	if err != nil {
		log.Fatalf("chemicals load failed: %v", err)
	}
	tracker := inventory.NewTracker(chemicals)

	// MQTT mirror is optional: without a broker the gateway still serves the
	// local store, only the Influx history path goes dark.
	var publisher mqttbus.IPublisher
	if host := os.Getenv("MQTT_HOST"); host != "" {
		mqClient, err := mqttbus.NewConn(&mqttbus.Config{
			Host:     host,
			Port:     envInt("MQTT_PORT", 1883),
			User:     env("MQTT_USER", "mqtt_user"),
			Password: env("MQTT_PASS", "mqtt_pwd"),
			ClientID: env("MQTT_CLIENT_ID", "gateway"),
		}, ctx)
		if err != nil {
			log.Printf("WARN: mqtt connect failed, readings will not be mirrored: %v", err)
		} else {
			publisher = mqttbus.NewPublisher(mqClient, env("MQTT_TOPIC", "planta/operational/gateway"))
		}
	}

	a := app.NewApp(app.Config{
		HistoryBaseURL:    env("PERSISTENCE_URL", ""),
		HTTPTimeout:       time.Duration(envInt("TIMEOUT_MS", 3000)) * time.Millisecond,
		BreakerFailures:   envInt("CB_FAILS", 3),
		BreakerOpenFor:    time.Duration(envInt("CB_OPEN_MS", 10000)) * time.Millisecond,
		BreakerIntervalMs: envInt("CB_INTERVAL_MS", 60000),
	}, store, tracker, publisher)

	port := env("PORT", "5009")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("gateway listening on :%s (data_dir=%s)", port, dataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	log.Println("gateway: shutdown complete")
}
