package bot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"RemindBot/config"
	"RemindBot/schedule"
	"RemindBot/utils"

	"github.com/bwmarrin/discordgo"
	_ "github.com/lib/pq"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Bot struct {
	Db     *sql.DB // nil with the file store
	Client *discordgo.Session
	Log    *zap.Logger
	Prefix string

	Reminders *schedule.Service
	Timers    *schedule.Service
	Limiter   *utils.RateLimiter
}

func NewBot(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Bot, error) {
	client, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, err
	}
	client.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	b := &Bot{
		Client:  client,
		Log:     log,
		Prefix:  cfg.Prefix,
		Limiter: utils.NewRateLimiter(cfg.RateLimit, time.Minute),
	}

	remStore, timerStore, err := b.openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	b.Reminders = schedule.NewService(schedule.Reminders, remStore,
		schedule.NewDiscordDelivery(client, schedule.Reminders, log.Named("delivery")),
		log.Named("reminders"),
		schedule.WithScanInterval(cfg.Reminders.ScanInterval))
	b.Timers = schedule.NewService(schedule.Timers, timerStore,
		schedule.NewDiscordDelivery(client, schedule.Timers, log.Named("delivery")),
		log.Named("timers"),
		schedule.WithScanInterval(cfg.Timers.ScanInterval))

	return b, nil
}

// OpenStores builds the reminder and timer stores for the configured backend.
func OpenStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (reminders, timers schedule.Store, db *sql.DB, err error) {
	switch cfg.Store.Backend {
	case "", "file":
		fs := afero.NewOsFs()
		return schedule.NewFileStore(fs, cfg.DataDir, schedule.Reminders, log),
			schedule.NewFileStore(fs, cfg.DataDir, schedule.Timers, log), nil, nil
	case "sqlite", "postgres":
		db, dialect, err := openDB(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		r, err := schedule.NewSQLStore(ctx, db, dialect, schedule.Reminders, log)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		t, err := schedule.NewSQLStore(ctx, db, dialect, schedule.Timers, log)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return r, t, db, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func openDB(cfg *config.Config) (*sql.DB, schedule.Dialect, error) {
	driver, dialect := "sqlite", schedule.DialectSQLite
	if cfg.Store.Backend == "postgres" {
		driver, dialect = "postgres", schedule.DialectPostgres
	}
	db, err := sql.Open(driver, cfg.DBURL)
	if err != nil {
		return nil, dialect, err
	}
	if dialect == schedule.DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, dialect, nil
}

// OpenReader opens kind's configured store for inspection. Unlike
// OpenStores it never creates the data directory, the file, the sqlite
// database or the table.
func OpenReader(cfg *config.Config, kind schedule.Kind, log *zap.Logger) (schedule.Reader, *sql.DB, error) {
	switch cfg.Store.Backend {
	case "", "file":
		return schedule.NewFileStore(afero.NewOsFs(), cfg.DataDir, kind, log), nil, nil
	case "sqlite", "postgres":
		if cfg.Store.Backend == "sqlite" {
			path := sqlitePath(cfg.DBURL)
			if _, err := os.Stat(path); err != nil {
				return nil, nil, fmt.Errorf("sqlite database %s: %w", path, err)
			}
		}
		db, dialect, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return schedule.OpenSQLStore(db, dialect, kind, log), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// sqlitePath strips the URI scheme and query from a sqlite DSN.
func sqlitePath(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		dsn = dsn[:i]
	}
	return dsn
}

func (b *Bot) openStores(ctx context.Context, cfg *config.Config) (schedule.Store, schedule.Store, error) {
	r, t, db, err := OpenStores(ctx, cfg, b.Log.Named("store"))
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	b.Db = db
	return r, t, nil
}

// Close releases the gateway connection and the database.
func (b *Bot) Close() {
	if err := b.Client.Close(); err != nil {
		b.Log.Warn("error closing gateway", zap.Error(err))
	}
	if b.Db != nil {
		if err := b.Db.Close(); err != nil {
			b.Log.Warn("error closing database", zap.Error(err))
		}
	}
}
