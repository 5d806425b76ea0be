package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"medication-reminders/internal/adapters/auth/remote"
	"medication-reminders/internal/adapters/auth/statictoken"
	"medication-reminders/internal/adapters/notify/lognotify"
	"medication-reminders/internal/adapters/notify/telegram"
	"medication-reminders/internal/adapters/notify/webhook"
	"medication-reminders/internal/adapters/timer/inprocess"
	"medication-reminders/internal/platform/logger"
	"medication-reminders/internal/ports/auth"
	"medication-reminders/internal/ports/notify"
	"medication-reminders/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Instancia personal: sin API_TOKEN ni AUTH_VERIFY_URL queda abierta.
	var verifier auth.Verifier
	if token := os.Getenv("API_TOKEN"); token != "" {
		verifier = statictoken.New(token)
	} else if verifyURL := os.Getenv("AUTH_VERIFY_URL"); verifyURL != "" {
		verifier = remote.New(remote.Config{
			VerifyURL: verifyURL,
			APIKey:    os.Getenv("AUTH_API_KEY"),
		})
	}

	timers := inprocess.New(buildNotifier(log), log, inprocess.Options{
		Tick: tickFromEnv(),
	})
	defer timers.Close()
	go timers.Run()

	app := router.New(router.Options{
		AuthVerifier: verifier,
		Timers:       timers,
		Log:          log,
	})

	// Boot reconciler: repone las alarmas de los schedules activos. Corre
	// aparte para no demorar el listen.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.Medications.RestoreAlarms(ctx); err != nil {
			log.Error("failed to restore alarms", map[string]any{"err": err.Error()})
		}
	}()

	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

// buildNotifier elige el canal de entrega por env: Telegram, webhook, o log.
func buildNotifier(log logger.Logger) notify.Notifier {
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if err != nil {
			log.Error("invalid TELEGRAM_CHAT_ID", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		n, err := telegram.New(token, chatID, log)
		if err != nil {
			log.Error("failed to init telegram notifier", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		log.Info("notifications via telegram", map[string]any{"chat_id": chatID})
		return n
	}

	if url := os.Getenv("WEBHOOK_URL"); url != "" {
		log.Info("notifications via webhook", map[string]any{"url": url})
		return webhook.New(url, 10*time.Second)
	}

	return lognotify.New(log)
}

func tickFromEnv() time.Duration {
	if v := os.Getenv("ALARM_TICK"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 0 // default del servicio
}
