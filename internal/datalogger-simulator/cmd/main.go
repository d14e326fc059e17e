package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	simulator "github.com/jfarfanc/ptap_monitor/internal/datalogger-simulator"
	"github.com/jfarfanc/ptap_monitor/internal/model"
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

	mqClient, err := mqttbus.NewConn(&mqttbus.Config{
		Host:     env("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     env("MQTT_USER", "mqtt_user"),
		Password: env("MQTT_PASS", "mqtt_pwd"),
		ClientID: env("MQTT_CLIENT_ID", "datalogger-sim"),
	}, ctx)
	if err != nil {
		log.Fatalf("mqtt connect failed: %v", err)
	}
	publisher := mqttbus.NewPublisher(mqClient, env("MQTT_TOPIC", "planta/operational/sim"))

	var start model.Date
	if s := os.Getenv("START_DATE"); s != "" {
		if d, err := model.ParseDate(s); err == nil {
			start = d
		} else {
			log.Printf("WARN: invalid START_DATE=%q: %v", s, err)
		}
	}
	gen := simulator.NewDataGenerator(start, int64(envInt("SEED", 42)))

	interval := time.Duration(envInt("INTERVAL_SEC", 10)) * time.Second
	log.Printf("datalogger simulator publishing every %s", interval)
	simulator.NewSimulator(publisher, gen).Start(ctx, interval)
}
