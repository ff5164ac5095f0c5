package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stockmaster/pkg/config"
	"github.com/rs/zerolog"
)

// NewPool crea el pool PostgreSQL con el tamaño de DB_MAX_CONNS / DB_MIN_CONNS.
// Usa DATABASE_URL si está definido; si no, el DSN construido desde DB_HOST, DB_PORT, etc.
// El dial prefiere IPv4 (los contenedores suelen no tener ruta IPv6).
func NewPool(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	dsn := cfg.ConnectionString()
	if cfg.DatabaseURL != "" {
		dsn = databaseURLWithIPv4(cfg.DatabaseURL)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	poolConfig.ConnConfig.DialFunc = dialPreferIPv4
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// NUMERIC -> shopspring/decimal en todas las conexiones del pool
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	log.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("pool PostgreSQL listo")
	return pool, nil
}

func dialPreferIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ipv4, err := resolveIPv4(ctx, host)
	if err != nil {
		return dialer.DialContext(ctx, network, addr)
	}
	return dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ipv4, port))
}

// resolveIPv4 devuelve la primera IPv4 de host (o host mismo si ya es IPv4).
func resolveIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host, nil
		}
		return "", fmt.Errorf("%s es IPv6", host)
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("%s sin IPv4", host)
	}
	return ips[0].String(), nil
}

// databaseURLWithIPv4 reemplaza el hostname de la URL por su IPv4 si existe.
func databaseURLWithIPv4(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || u.Hostname() == "" {
		return databaseURL
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	ipv4, err := resolveIPv4(context.Background(), u.Hostname())
	if err != nil {
		return databaseURL
	}
	u.Host = net.JoinHostPort(ipv4, port)
	return u.String()
}
