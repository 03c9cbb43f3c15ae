package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/budget"
	"github.com/fieldreach/intelligence-api/internal/decision"
	"github.com/fieldreach/intelligence-api/internal/engine"
	"github.com/fieldreach/intelligence-api/internal/fatigue"
	"github.com/fieldreach/intelligence-api/internal/ingester"
	"github.com/fieldreach/intelligence-api/internal/learning"
	"github.com/fieldreach/intelligence-api/internal/notifier"
	"github.com/fieldreach/intelligence-api/internal/notifier/notification"
	"github.com/fieldreach/intelligence-api/internal/scheduler"
	"github.com/fieldreach/intelligence-api/internal/trigger"
)

var (
	kafkaIngester *ingester.KafkaIngester
	kafkaCancel   context.CancelFunc
	redisClient   *redis.Client
)

// initRepositories initialize all postgresql repositories
func initRepositories() {
	dbClient := DB()

	triggerRepository := trigger.NewPostgresRepository(dbClient)
	if viper.GetBool("REDIS_ENABLED") {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     viper.GetString("REDIS_ADDRESS"),
			Password: viper.GetString("REDIS_PASSWORD"),
		})
		triggerRepository = trigger.NewCachedRepository(triggerRepository, redisClient, 5*time.Minute)
		zap.L().Info("Trigger repository redis cache enabled", zap.String("addr", viper.GetString("REDIS_ADDRESS")))
	}
	trigger.ReplaceGlobals(triggerRepository)

	decision.ReplaceGlobals(decision.NewPostgresRepository(dbClient))
	fatigue.ReplaceGlobals(fatigue.NewPostgresRepository(dbClient))
	budget.ReplaceGlobals(budget.NewPostgresRepository(dbClient))
	learning.ReplaceGlobals(learning.NewPostgresRepository(dbClient))
	scheduler.ReplaceGlobals(scheduler.NewScheduler())
	scheduler.ReplaceGlobalRepository(scheduler.NewPostgresRepository(dbClient))
}

// buildEngine wires the decision engine on the global repositories and hooks
// the notifier broadcast on approved decisions
func buildEngine() *engine.Engine {
	eng := engine.New(trigger.R(), decision.R(), budget.R(), fatigue.R(), learning.R())
	eng.RegisterDecisionHook(func(d decision.Decision) {
		if d.Tier != decision.TierGo {
			return
		}
		notifier.C().Broadcast(notification.NewDecisionNotification(d))
	})
	return eng
}

func initServices(eng *engine.Engine) {
	initNotifier()
	initScheduler()
	initIngester(eng)
}

func stopServices() {
	if kafkaCancel != nil {
		kafkaCancel()
	}
	if kafkaIngester != nil {
		if err := kafkaIngester.Close(); err != nil {
			zap.L().Warn("Kafka ingester close", zap.Error(err))
		}
	}
	if scheduler.S() != nil {
		scheduler.S().Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zap.L().Warn("Redis client close", zap.Error(err))
		}
	}
}

func initNotifier() {
	notifier.ReplaceGlobals(notifier.NewNotifier())
}

func initScheduler() {
	err := scheduler.S().Init()
	if err != nil {
		zap.L().Error("Couldn't init maintenance scheduler", zap.Error(err))
		return
	}
	if viper.GetBool("ENABLE_CRONS_ON_START") {
		scheduler.S().Start()
	}
}

func initIngester(eng *engine.Engine) {
	if !viper.GetBool("KAFKA_ENABLED") {
		zap.L().Info("Kafka ingester disabled")
		return
	}
	kafkaIngester = ingester.NewKafkaIngester(eng,
		viper.GetStringSlice("KAFKA_BROKERS"),
		viper.GetString("KAFKA_TOPIC"),
		viper.GetString("KAFKA_GROUP_ID"),
	)
	var ctx context.Context
	ctx, kafkaCancel = context.WithCancel(context.Background())
	go kafkaIngester.Run(ctx)
}
