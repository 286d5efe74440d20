package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/trade-hub/trade-hub/internal/api/http"
	"github.com/trade-hub/trade-hub/internal/application/dispatch"
	"github.com/trade-hub/trade-hub/internal/application/penalty"
	"github.com/trade-hub/trade-hub/internal/application/policy"
	"github.com/trade-hub/trade-hub/internal/application/selection"
	"github.com/trade-hub/trade-hub/internal/config"
	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
	"github.com/trade-hub/trade-hub/internal/infrastructure/eventhub"
	"github.com/trade-hub/trade-hub/internal/infrastructure/leanstore"
	"github.com/trade-hub/trade-hub/internal/infrastructure/memstore"
	"github.com/trade-hub/trade-hub/internal/infrastructure/remotestore"
	"github.com/trade-hub/trade-hub/internal/infrastructure/simclock"
)

const product = "widget"

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := simclock.New(start)
	hub := eventhub.NewHub()
	actors := policy.NewActors()
	rng := rand.New(rand.NewSource(cfg.Seed))

	courier := policy.NewCourier(clk, actors, logger)
	courier.WireDelay = cfg.WireDelay

	enforcer := penalty.New(penalty.Config{
		FineFixed:               cfg.FineFixed,
		DeliveryFineMargin:      cfg.DeliveryFineMargin,
		PaymentFineMarginPerDay: cfg.PaymentFineMarginPerDay,
		DeliveryGrace:           cfg.DeliveryGrace,
		BillGrace:               cfg.BillGrace,
	}, clk, actors, actors, courier, logger)

	locator := ledger.NewGridLocator()
	transport := ledger.NewFlatTransport(locator)
	handling := policy.Delay{Min: cfg.HandlingMin, Max: cfg.HandlingMax}

	// Optional remote audit log.
	var auditLog *remotestore.PgLog
	if cfg.AuditDSN != "" {
		pool, err := remotestore.NewPool(context.Background(), cfg.AuditDSN)
		if err != nil {
			log.Fatalf("audit db error: %v", err)
		}
		defer pool.Close()
		auditLog = remotestore.NewPgLog(pool)
		if err := auditLog.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("audit schema error: %v", err)
		}
	}

	buildStore := func(id message.ActorID, lean bool) message.Store {
		var st message.Store
		if lean {
			st = leanstore.New(id, clk, hub, logger)
		} else {
			st = memstore.New(id, clk, hub, logger)
		}
		if auditLog != nil {
			st = remotestore.NewTee(st, remotestore.New(id, auditLog, clk, logger))
		}
		return st
	}

	ranking, err := selection.ParseRanking(cfg.RankingSpec)
	if err != nil {
		log.Fatalf("ranking error: %v", err)
	}

	// Broker: answers supplier discovery.
	sellerIDs := make([]message.ActorID, 0, cfg.Sellers)
	for i := 1; i <= cfg.Sellers; i++ {
		sellerIDs = append(sellerIDs, message.ActorID(fmt.Sprintf("seller-%d", i)))
	}
	directory := policy.StaticDirectory{product: sellerIDs}

	broker := message.ActorID("broker")
	locator.Place(broker, 0, 0)
	brokerStore := buildStore(broker, false)
	brokerDisp := dispatch.New(broker, brokerStore, logger)
	must(brokerDisp.Register(policy.NewYellowPagePolicy(broker, directory, courier, clk, handling, rng, logger)))
	actors.Add(&policy.Actor{ID: broker, Store: brokerStore, Account: ledger.NewMemAccount(0), Dispatcher: brokerDisp})

	// Sellers: quote, fulfill, collect.
	for i, id := range sellerIDs {
		locator.Place(id, float64(i+1)*3, 0)
		stock := ledger.NewMemStock()
		stock.SetUnitPrice(product, 10+float64(i))
		stock.Add(product, 5000)
		account := ledger.NewMemAccount(10_000)
		store := buildStore(id, false)
		disp := dispatch.New(id, store, logger)

		must(disp.Register(policy.NewRFQPolicy(id, policy.RFQConfig{
			ProfitMargin:  cfg.ProfitMargin,
			QuoteValidity: cfg.QuoteValidity,
			Handling:      handling,
			Transport:     message.TransportRoad,
		}, stock, transport, courier, clk, rng, logger)))
		must(disp.Register(policy.NewOrderPolicy(id, policy.OrderConfig{
			Handling:     handling,
			RequireStock: true,
			PaymentTerm:  cfg.PaymentTerm,
		}, stock, transport, courier, clk, enforcer, rng, logger)))
		must(disp.Register(policy.NewPaymentPolicy(id, store, account, clk, enforcer, logger)))

		actors.Add(&policy.Actor{ID: id, Store: store, Account: account, Stock: stock, Dispatcher: disp})
	}

	// Buyers: demand, select, confirm, receive, pay.
	buyerIDs := make([]message.ActorID, 0, cfg.Buyers)
	for i := 1; i <= cfg.Buyers; i++ {
		id := message.ActorID(fmt.Sprintf("buyer-%d", i))
		buyerIDs = append(buyerIDs, id)
		locator.Place(id, 0, float64(i+1)*2)
		stock := ledger.NewMemStock()
		account := ledger.NewMemAccount(1_000_000)
		store := buildStore(id, true)
		disp := dispatch.New(id, store, logger)

		eval := selection.New(selection.Criteria{
			Ranking:        ranking,
			MaxPriceMargin: cfg.MaxPriceMargin,
		}, locator, logger)

		must(disp.Register(policy.NewDemandPolicy(id, policy.DemandConfig{
			Mode:         policy.DemandYellowPages,
			Broker:       broker,
			Handling:     handling,
			RFQValidity:  cfg.RFQValidity,
			Transport:    message.TransportRoad,
			TrackOnOrder: true,
		}, courier, clk, stock, rng, logger)))
		must(disp.Register(policy.NewYellowPageAnswerPolicy(id, store, courier, clk, handling, cfg.RFQValidity, rng, logger)))
		must(disp.Register(policy.NewQuotePolicy(id, policy.AllQuotes, eval, store, stock, transport, courier, clk, handling, rng, logger)))
		must(disp.Register(policy.NewConfirmationPolicy(id, store, courier, clk, enforcer, logger)))
		must(disp.Register(policy.NewShipmentPolicy(id, policy.RoleReplenish, stock, logger)))
		must(disp.Register(policy.NewBillPolicy(id, policy.BillConfig{Timing: policy.PayOnTime}, store, account, courier, clk, rng, logger)))

		actors.Add(&policy.Actor{ID: id, Store: store, Account: account, Stock: stock, Dispatcher: disp})
	}

	// Observability server.
	apiServer := httpapi.NewServer(actors, hub, logger)
	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Periodic demands up to the horizon.
	horizon := start.Add(cfg.Horizon)
	for _, id := range buyerIDs {
		buyer := id
		for at := start.Add(cfg.DemandEvery); at.Before(horizon); at = at.Add(cfg.DemandEvery) {
			clk.ScheduleAt(at, func() {
				now := clk.Now()
				qty := 10 + rng.Intn(90)
				d := message.NewDemand(buyer, product, qty, now.Add(10*clock.Day), now.Add(30*clock.Day), now)
				courier.Send(d)
			})
		}
	}

	logger.Info().
		Int64("seed", cfg.Seed).
		Dur("horizon", cfg.Horizon).
		Int("buyers", cfg.Buyers).
		Int("sellers", cfg.Sellers).
		Msg("simulation started")

	clk.Run(horizon)

	for _, a := range actors.All() {
		stats := a.Dispatcher.Stats()
		logger.Info().
			Str("actor", string(a.ID)).
			Float64("balance", a.Account.Balance()).
			Int("openChains", len(a.Store.OpenChains())).
			Uint64("accepted", stats.Accepted).
			Uint64("rejected", stats.Rejected).
			Uint64("refused", stats.Refused).
			Msg("settlement")
	}
	logger.Info().Time("simEnd", clk.Now()).Int("pendingEvents", clk.Pending()).Msg("simulation finished")

	// Keep serving the observability endpoints until interrupted.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}

func must(err error) {
	if err != nil {
		log.Fatalf("wiring error: %v", err)
	}
}
