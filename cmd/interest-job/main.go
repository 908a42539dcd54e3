package main

import (
	"context"
	"flag"
	"time"

	"creditjack/internal/app/account"
	"creditjack/internal/config"
	"creditjack/internal/ledger"
	"creditjack/internal/logging"
	"creditjack/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// interest-job applies one round of bank interest. Run it once a day.
func main() {
	rateFlag := flag.String("rate", "", "fixed rate to apply, e.g. 1.00005; drawn at random when empty")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logging.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()

	svc := account.NewService(st, ledger.New(st), cfg.Games)
	var resp *account.ApplyInterestResponse
	if *rateFlag == "" {
		resp, err = svc.ApplyDailyInterest(ctx)
	} else {
		rate, perr := decimal.NewFromString(*rateFlag)
		if perr != nil {
			log.Fatal().Err(perr).Str("rate", *rateFlag).Msg("invalid rate")
		}
		resp, err = svc.ApplyInterest(ctx, rate)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("apply interest failed")
	}
	log.Info().Str("rate", resp.Rate).Int64("accounts", resp.Accounts).Msg("interest job done")
}
