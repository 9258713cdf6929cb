package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/notekeep/internal/pkg/clock"
	"github.com/shandysiswandi/notekeep/internal/pkg/config"
	"github.com/shandysiswandi/notekeep/internal/pkg/goroutine"
	"github.com/shandysiswandi/notekeep/internal/pkg/hash"
	"github.com/shandysiswandi/notekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/notekeep/internal/pkg/jwt"
	"github.com/shandysiswandi/notekeep/internal/pkg/mail"
	"github.com/shandysiswandi/notekeep/internal/pkg/messaging"
	"github.com/shandysiswandi/notekeep/internal/pkg/otp"
	"github.com/shandysiswandi/notekeep/internal/pkg/router"
	"github.com/shandysiswandi/notekeep/internal/pkg/uid"
	"github.com/shandysiswandi/notekeep/internal/pkg/validator"
)

func (a *App) initConfig() error {
	path := lo.CoalesceOrEmpty(os.Getenv("CONFIG_PATH"), "./config/config.yaml")

	cfg, err := config.NewViper(path)
	if err != nil {
		return err
	}
	a.config = cfg
	a.onClose("config", func(context.Context) error { return cfg.Close() })

	if err := config.Require(cfg, "hash.otp_secret", "jwt.secret", "database.url"); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("app.tz: %w", err)
		}
		time.Local = loc
	}
	return nil
}

func (a *App) initInstrument() error {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("app.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		return err
	}
	a.ins = ins
	a.onClose("instrument", ins.Shutdown)
	return nil
}

func (a *App) initLibraries() error {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.otp = otp.NewNumeric()
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.otp_secret"))

	v, err := validator.NewV10Validator()
	if err != nil {
		return fmt.Errorf("validator: %w", err)
	}
	a.validator = v

	snow, err := uid.NewSnowflake()
	if err != nil {
		return fmt.Errorf("snowflake: %w", err)
	}
	a.uid = snow
	return nil
}

func (a *App) initJWT() error {
	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		return err
	}
	a.jwt = tokens
	return nil
}

// waitReady pings a dependency with Fibonacci backoff until it answers or
// app.startup_timeout_seconds elapses, so the service survives containers
// that start in any order.
func (a *App) waitReady(name string, ping func(ctx context.Context) error) error {
	limit := a.config.GetSecond("app.startup_timeout_seconds")
	if limit <= 0 {
		limit = 30 * time.Second
	}
	backoff := retry.WithMaxDuration(limit, retry.WithCappedDuration(5*time.Second, retry.NewFibonacci(200*time.Millisecond)))

	return retry.Do(a.ctx, backoff, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			slog.WarnContext(ctx, "dependency not ready, retrying", "name", name, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (a *App) initDatabase() error {
	poolCfg, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		return fmt.Errorf("parse database.url: %w", err)
	}

	poolCfg.MaxConns = a.config.GetInt32("database.pool.max_conns")
	poolCfg.MinConns = a.config.GetInt32("database.pool.min_conns")
	poolCfg.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	poolCfg.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	poolCfg.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, poolCfg)
	if err != nil {
		return err
	}
	a.onClose("database", func(context.Context) error {
		pool.Close()
		return nil
	})

	if err := a.waitReady("database", pool.Ping); err != nil {
		return err
	}
	a.dbConn = pool
	return nil
}

func (a *App) initCache() error {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		return fmt.Errorf("parse redis.url: %w", err)
	}

	rdb := redis.NewClient(opt)
	a.onClose("redis", func(context.Context) error { return rdb.Close() })

	if err := a.waitReady("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }); err != nil {
		return err
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(rdb, a.config.GetString("redis.idempotency_prefix"))
	return nil
}

func (a *App) initMail() error {
	client, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
		Timeout:  a.config.GetSecond("mail.timeout_seconds"),
	})
	if err != nil {
		return err
	}
	a.mail = client
	a.onClose("mail", func(context.Context) error { return client.Close() })
	return nil
}

func (a *App) nsqProducerConfig() *nsq.Config {
	cfg := nsq.NewConfig()
	cfg.DialTimeout = a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds")
	cfg.ReadTimeout = a.config.GetSecond("messaging.nsq.producer_config.read_timeout_seconds")
	cfg.WriteTimeout = a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds")
	return cfg
}

func (a *App) initMessaging() error {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:   a.config.GetString("messaging.nsq.producer_addr"),
			ProducerConfig: a.nsqProducerConfig(),
		},
		NATS: messaging.NATSConfig{
			URL:  a.config.GetString("messaging.nats.url"),
			Name: a.config.GetString("messaging.nats.name"),
			Options: []nats.Option{
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers:      lo.Uniq(a.config.GetArray("messaging.kafka.brokers")),
			WriteTimeout: a.config.GetSecond("messaging.kafka.write_timeout_seconds"),
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:       a.config.GetString("messaging.pubsub.project_id"),
			EmulatorHost:    a.config.GetString("messaging.pubsub.emulator_host"),
			CredentialsFile: a.config.GetString("messaging.pubsub.credentials_file"),
		},
	})
	if err != nil {
		return fmt.Errorf("driver %q: %w", driver, err)
	}
	a.messaging = messaging.NewRetrying(client,
		uint64(max(a.config.GetInt("messaging.publish_retries"), 0)),
		time.Duration(a.config.GetInt("messaging.publish_retry_base_ms"))*time.Millisecond,
	)
	a.onClose("messaging", func(context.Context) error { return client.Close() })
	return nil
}

// health backs GET /health: both stores must answer.
func (a *App) health(ctx context.Context) error {
	return errors.Join(
		a.dbConn.Ping(ctx),
		a.cacheConn.Ping(ctx).Err(),
	)
}

func (a *App) initHTTPServer() error {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
		Health:     a.health,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   a.config.GetArray("app.server.cors"),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key", router.HeaderCorrelationID},
		ExposedHeaders:   []string{router.HeaderCorrelationID, "Retry-After"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           handler,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
	return nil
}
