package main

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/rcamargo/estimativa-tracker/internal/adapter/scorepresenter"
	appcfg "github.com/rcamargo/estimativa-tracker/internal/config"
	"github.com/rcamargo/estimativa-tracker/internal/history"
	"github.com/rcamargo/estimativa-tracker/internal/match"
	"github.com/rcamargo/estimativa-tracker/internal/msgcat"
	"github.com/rcamargo/estimativa-tracker/internal/obslog"
	"github.com/rcamargo/estimativa-tracker/pkg/matchdto"
)

// Plays a scripted four-player match end to end through the public
// commands and prints what the hosting UI would display. Doubles as a
// wiring check: set REDIS_URL and/or DATABASE_URL to exercise the stores.
func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis url error: %v", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("REDIS_URL not set; running in memory")
	}

	var histStore *history.Store
	if rdb != nil {
		histStore = history.NewStore(rdb)
	}
	svc := history.NewService(histStore, cfg.HistoryLimit)
	if cfg.DatabaseURL != "" {
		repo, err := history.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("history repo init error: %v", err)
		}
		svc.AttachRepository(repo)
	} else {
		svc.AttachRepository(history.NewMemoryRepository())
		log.Println("DATABASE_URL not set; archiving in memory")
	}

	mgr := match.NewManager(rdb)
	mgr.AttachRecorder(svc)

	cat, err := msgcat.New(cfg.MsgTemplateDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}
	formatter := scorepresenter.NewFormatter(cat)

	ctx := context.Background()
	names := []string{"Ana", "Bia", "Caio", "Duda"}
	m, err := mgr.CreateMatch(ctx, names, 3)
	if err != nil {
		log.Fatalf("create match error: %v", err)
	}

	for i := 0; i < m.TotalRounds; i++ {
		view := scorepresenter.ToMatchView(mgr.Current())
		fmt.Println(formatter.RoundHeader(view))

		order, err := mgr.EstimationOrder()
		if err != nil {
			log.Fatalf("estimation order error: %v", err)
		}
		fmt.Println(formatter.EstimationOrder(scorepresenter.ToPlayerViews(order)))

		// The first estimator bids for every trick, everyone else for none.
		cards := m.RoundSequence[i]
		for j, p := range order {
			bid := 0
			if j == 0 {
				bid = cards
			}
			if err := mgr.SetEstimate(ctx, p.ID, bid); err != nil {
				log.Fatalf("set estimate error: %v", err)
			}
		}
		if err := mgr.ConfirmEstimates(ctx); err != nil {
			log.Fatalf("confirm estimates error: %v", err)
		}

		if valid, diff := mgr.OutcomeValidation(); !valid {
			fmt.Println(formatter.OutcomeHint(diff))
		}
		if err := mgr.SetOutcome(ctx, order[0].ID, cards); err != nil {
			log.Fatalf("set outcome error: %v", err)
		}
		if err := mgr.FinishRound(ctx); err != nil {
			log.Fatalf("finish round error: %v", err)
		}

		cur := mgr.Current()
		for _, line := range formatter.RoundScores(scorepresenter.ToRoundView(cur, cur.CurrentRound())) {
			fmt.Println(line)
		}
		for _, line := range formatter.Standings(scorepresenter.ToMatchView(cur)) {
			fmt.Println(line)
		}
		fmt.Println()

		if i < m.TotalRounds-1 {
			if err := mgr.AdvanceRound(ctx); err != nil {
				log.Fatalf("advance round error: %v", err)
			}
		}
	}

	if err := mgr.FinishMatch(ctx); err != nil {
		log.Fatalf("finish match error: %v", err)
	}

	rec, err := svc.GameByID(ctx, m.ID)
	if err != nil || rec == nil {
		log.Fatalf("history record missing: %v", err)
	}
	for _, line := range formatter.FinalSummary(scorepresenter.ToHistoryView(rec)) {
		fmt.Println(line)
	}

	recent, err := svc.RecentGames(ctx, 0)
	if err != nil {
		log.Fatalf("recent games error: %v", err)
	}
	views := make([]*matchdto.HistoryView, 0, len(recent))
	for _, r := range recent {
		views = append(views, scorepresenter.ToHistoryView(r))
	}
	fmt.Println()
	for _, line := range formatter.HistoryList(views) {
		fmt.Println(line)
	}

	if err := mgr.ResetMatch(ctx); err != nil {
		log.Fatalf("reset match error: %v", err)
	}
}
