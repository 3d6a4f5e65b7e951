package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"time"

	"log/slog"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
	schemaVersion        = 1 // bump when schema/migrations change
)

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	var conn net.Conn
	var err error
	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{pool: pool, bunDB: newBunDB(pool)}, nil
}

func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func newBunDB(pool *pgxpool.Pool) *bun.DB {
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pool.Config().ConnConfig.User,
		pool.Config().ConnConfig.Password,
		pool.Config().ConnConfig.Host,
		pool.Config().ConnConfig.Port,
		pool.Config().ConnConfig.Database,
		sslMode,
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates all required database tables and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	fastInit := os.Getenv("DB_FAST_INIT") == "1"
	if fastInit {
		if err := db.ensureAppMeta(ctx); err == nil {
			if v, _ := db.getAppMeta(ctx, "schema_version"); v == fmt.Sprintf("%d", schemaVersion) {
				slog.Info("Fast DB init: schema up-to-date, skipping initialization",
					slog.String("mode", "DB_FAST_INIT"),
					slog.Int("schema_version", schemaVersion))
				return nil
			}
		}
	}

	if err := db.ensureUTF8Encoding(ctx); err != nil {
		return fmt.Errorf("failed to ensure UTF-8 encoding: %w", err)
	}

	// Create tables in the correct order to handle foreign key constraints
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Level)(nil),
		(*models.UserBesitos)(nil),
		(*models.BesitoTransaction)(nil),
		(*models.SubscriptionPlan)(nil),
		(*models.InvitationToken)(nil),
		(*models.VIPSubscriber)(nil),
		(*models.Mission)(nil),
		(*models.UserMission)(nil),
		(*models.Reward)(nil),
		(*models.UserReward)(nil),
		(*models.UserStreak)(nil),
		(*models.NarrativeChapter)(nil),
		(*models.NarrativeFragment)(nil),
		(*models.FragmentDecision)(nil),
		(*models.FragmentRequirement)(nil),
		(*models.FragmentVariant)(nil),
		(*models.FragmentChallenge)(nil),
		(*models.ChallengeAttempt)(nil),
		(*models.FragmentTimeWindow)(nil),
		(*models.UserFragmentVisit)(nil),
		(*models.NarrativeCooldown)(nil),
		(*models.DailyNarrativeLimit)(nil),
		(*models.UserNarrativeProgress)(nil),
		(*models.UserDecisionHistory)(nil),
		(*models.ChapterCompletion)(nil),
		(*models.UserOnboardingProgress)(nil),
		(*models.OnboardingFragment)(nil),
		(*models.ItemCategory)(nil),
		(*models.ShopItem)(nil),
		(*models.UserInventory)(nil),
		(*models.UserInventoryItem)(nil),
		(*models.ItemPurchase)(nil),
		(*models.LimitedStock)(nil),
		(*models.ContentSet)(nil),
		(*models.UserContentAccess)(nil),
		(*models.UserLifecycle)(nil),
		(*models.NotificationPreferences)(nil),
		(*models.ReengagementLog)(nil),
		(*models.ConversionEvent)(nil),
	}

	for _, model := range tables {
		if _, err := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_besito_txns_user_created ON besito_transactions(user_id, created_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_besito_txns_user_type ON besito_transactions(user_id, type, created_at DESC);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_invitation_tokens_token ON invitation_tokens(token);",
		"CREATE INDEX IF NOT EXISTS idx_vip_subscribers_status_expiry ON vip_subscribers(status, expiry_date);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_user_missions_window ON user_missions(user_id, mission_id, window_start);",
		"CREATE INDEX IF NOT EXISTS idx_user_missions_status ON user_missions(user_id, status);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_fragments_key ON narrative_fragments(fragment_key);",
		"CREATE INDEX IF NOT EXISTS idx_fragments_chapter ON narrative_fragments(chapter_id, fragment_order);",
		"CREATE INDEX IF NOT EXISTS idx_fragment_decisions_fragment ON fragment_decisions(fragment_id, decision_order);",
		"CREATE INDEX IF NOT EXISTS idx_fragment_variants_key ON fragment_variants(fragment_key) WHERE is_active = true;",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_visits_user_fragment ON user_fragment_visits(user_id, fragment_key);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cooldowns_target ON narrative_cooldowns(user_id, cooldown_type, target_key);",
		"CREATE INDEX IF NOT EXISTS idx_cooldowns_expiry ON narrative_cooldowns(expires_at);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_limits_user ON daily_narrative_limits(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_decision_history_user ON user_decision_history(user_id, decided_at DESC);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_chapter_completions_user ON chapter_completions(user_id, chapter_slug);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_inventory_items_user_item ON user_inventory_items(user_id, item_id);",
		"CREATE INDEX IF NOT EXISTS idx_item_purchases_user ON item_purchases(user_id, purchased_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_lifecycles_state ON user_lifecycles(current_state, last_activity);",
		"CREATE INDEX IF NOT EXISTS idx_reengagement_user_sent ON reengagement_logs(user_id, sent_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_conversion_events_user ON conversion_events(user_id, offer_type, event_type, created_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_content_access_user ON user_content_access(user_id, delivered_at DESC);",
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.InitializeSeedData(ctx); err != nil {
		return fmt.Errorf("failed to initialize seed data: %w", err)
	}

	if err := db.ensureAppMeta(ctx); err == nil {
		_ = db.setAppMeta(ctx, "schema_version", fmt.Sprintf("%d", schemaVersion))
	}

	return nil
}

// ensureAppMeta creates the app_meta table if not exists
func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx, `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT)`)
	return err
}

func (db *DB) getAppMeta(ctx context.Context, key string) (string, error) {
	row := db.pool.QueryRow(ctx, `SELECT value FROM app_meta WHERE key = $1`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	sql := `INSERT INTO app_meta(key, value) VALUES($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	_, err := db.pool.Exec(ctx, sql, key, value)
	return err
}

// ensureUTF8Encoding checks and ensures the database is using UTF-8 encoding
func (db *DB) ensureUTF8Encoding(ctx context.Context) error {
	var encoding string
	err := db.pool.QueryRow(ctx, "SHOW server_encoding;").Scan(&encoding)
	if err != nil {
		return fmt.Errorf("failed to check database encoding: %w", err)
	}

	if encoding != "UTF8" {
		slog.Warn("Database is not using UTF-8 encoding, this may cause character encoding issues",
			"current_encoding", encoding,
			"recommended", "UTF8")
	}

	if _, err := db.pool.Exec(ctx, "SET client_encoding TO 'UTF8';"); err != nil {
		return fmt.Errorf("failed to set client encoding to UTF-8: %w", err)
	}
	return nil
}
