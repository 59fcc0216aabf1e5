package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bgoldmann/darkstore/internal/config"
	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/bgoldmann/darkstore/internal/infrastructure/kafka"
	"github.com/bgoldmann/darkstore/internal/infrastructure/logger"
	"github.com/bgoldmann/darkstore/internal/infrastructure/metrics"
	"github.com/bgoldmann/darkstore/internal/infrastructure/notifier"
	"github.com/bgoldmann/darkstore/internal/infrastructure/postgres"
	"github.com/bgoldmann/darkstore/internal/infrastructure/postgres/repository"
	rediscache "github.com/bgoldmann/darkstore/internal/infrastructure/redis"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.EscrowConfig
	DB           *gorm.DB
	Publisher    domain.EscrowEventPublisher
	AuditLogger  logger.EscrowAuditLogger
	Metrics      *metrics.EscrowMetrics
	Repositories *Repositories

	closers []func() error
}

type Repositories struct {
	OrderRepo    domain.OrderRepository
	CheckoutRepo domain.CheckoutRepository
}

func InitializeDependencies(ctx context.Context, cfg *config.EscrowConfig) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)
	deps := &Dependencies{
		Config:      cfg,
		DB:          db,
		AuditLogger: logger.NewPGEscrowAuditLogger(db),
		Metrics:     metrics.NewEscrowMetrics(prometheus.DefaultRegisterer),
	}

	deps.Publisher = initPublisher(cfg, deps)

	var orderRepo domain.OrderRepository = repository.NewDefaultOrderRepository(db)
	if cfg.RedisCache.Enabled {
		client, err := rediscache.NewClient(ctx, cfg.RedisCache)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		deps.closers = append(deps.closers, client.Close)
		orderRepo = repository.NewCachedOrderRepository(orderRepo, rediscache.NewRedisOrderCache(client, cfg.RedisCache.TTL))
	}

	deps.Repositories = &Repositories{
		OrderRepo:    orderRepo,
		CheckoutRepo: repository.NewDefaultCheckoutRepository(db),
	}
	return deps, nil
}

func initPublisher(cfg *config.EscrowConfig, deps *Dependencies) domain.EscrowEventPublisher {
	var publishers fanOutPublisher
	if cfg.KafkaService.Enabled() {
		pub := kafka.NewKafkaPublisher([]string{cfg.KafkaService.Address()}, cfg.KafkaService.Topic)
		deps.closers = append(deps.closers, pub.Close)
		publishers = append(publishers, pub)
	}
	if cfg.Notifier.CallbackURL != "" {
		publishers = append(publishers, notifier.NewWebhookNotifier(cfg.Notifier.CallbackURL, cfg.Notifier.Secret, cfg.Notifier.Timeout))
	}

	switch len(publishers) {
	case 0:
		slog.Warn("no event sink configured, escrow events are dropped")
		return kafka.NoopPublisher{}
	case 1:
		return publishers[0]
	}
	return publishers
}

// fanOutPublisher delivers every event to all sinks and joins their errors.
type fanOutPublisher []domain.EscrowEventPublisher

func (f fanOutPublisher) PublishEscrowEvent(event domain.EscrowEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishEscrowEvent(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DisputeResolverRoles converts configured role names, skipping unknown ones.
func DisputeResolverRoles(cfg *config.EscrowConfig) []domain.Role {
	roles := make([]domain.Role, 0, len(cfg.Escrow.DisputeResolverRoles))
	for _, name := range cfg.Escrow.DisputeResolverRoles {
		role := domain.Role(strings.ToLower(strings.TrimSpace(name)))
		if !role.Valid() {
			slog.Warn("ignoring unknown dispute resolver role", "role", name)
			continue
		}
		roles = append(roles, role)
	}
	return roles
}

func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			slog.Error("failed to close dependency", "error", err.Error())
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
