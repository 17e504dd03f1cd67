package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/crypted-pay/crypted-pay/internal/bot"
	"github.com/crypted-pay/crypted-pay/internal/config"
	"github.com/crypted-pay/crypted-pay/internal/db"
	"github.com/crypted-pay/crypted-pay/internal/rates"
	"github.com/crypted-pay/crypted-pay/internal/server"
	"github.com/crypted-pay/crypted-pay/internal/session"
	"github.com/crypted-pay/crypted-pay/pkg/telegram"
	"github.com/crypted-pay/crypted-pay/pkg/wallet"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Initialize configuration
	config.Initialize()
	log.Printf("Using config file: %s", *configFile)

	// Initialize database
	db.Initialize()
	db.Migrate()
	store := db.New()

	// Initialize session store
	sessions := session.New(
		viper.GetString("Redis.Addr"),
		viper.GetString("Redis.Password"),
		viper.GetInt("Redis.DB"),
	)

	// Initialize wallet adapters
	cryptoConfigs := make(map[string]wallet.Config)
	for symbol := range viper.GetStringMap("Crypto") {
		sub := viper.Sub("Crypto." + symbol)
		if sub == nil {
			log.Printf("Skipping malformed crypto config for %q", symbol)
			continue
		}
		cryptoConfigs[strings.ToUpper(symbol)] = wallet.Config{
			Network: sub.GetString("Network"),
			APIKey:  sub.GetString("APIKey"),
		}
	}
	registry := wallet.NewRegistry(cryptoConfigs)
	log.Printf("Wallet adapters initialized: %v", registry.Symbols())

	// Initialize Telegram client and webhook
	tg := telegram.NewClient(viper.GetString("Telegram.Token"))
	if baseURL := viper.GetString("Telegram.BaseURL"); baseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := tg.SetWebhook(ctx, baseURL+"/"+tg.Token+"/"); err != nil {
			log.Fatalf("Failed to set webhook: %v", err)
		}
		cancel()
		log.Printf("Webhook registered at %s", baseURL)
	}

	engine := &bot.Engine{
		Sessions:       sessions,
		Catalogue:      store,
		Users:          store,
		Vouchers:       store,
		Rates:          store,
		Units:          registry,
		Transport:      tg,
		Renderer:       bot.NewRenderer(),
		BotName:        viper.GetString("Telegram.BotName"),
		WalletCurrency: "USD",
	}

	// Start the exchange-rate refresher
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	updater := rates.New(
		store,
		registry,
		viper.GetString("Rates.APIKey"),
		engine.WalletCurrency,
		time.Duration(viper.GetInt("Rates.IntervalSeconds"))*time.Second,
	)
	go updater.Run(refreshCtx)

	// Start the webhook server
	httpServer := &http.Server{
		Addr:    ":" + viper.GetString("Server.Port"),
		Handler: server.New(tg.Token, engine),
	}
	go func() {
		log.Printf("Webhook server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Println("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Println("Shutting down...")
	stopRefresh()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shut down HTTP server: %v", err)
	}
}
