package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ozfortress/slurwatch/internal/store/schema"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")

	var dsn string
	var err error

	if dbHost != "" {
		dbPort := os.Getenv("TEST_DB_PORT")
		dbUser := os.Getenv("TEST_DB_USER")
		dbPassword := os.Getenv("TEST_DB_PASSWORD")
		dbName := os.Getenv("TEST_DB_NAME")
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		// Start a PostgreSQL container for testing
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Started PostgreSQL container\n")
	}

	// Connect to the database
	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Initialize the database schema
	if err := AutoMigrate(testDB); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	os.Exit(code)
}

// initPGTestDB creates a store on a transaction that rolls back after the
// test, keeping tests isolated from each other.
func initPGTestDB(t *testing.T) Store {
	tx := testDB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx)
}

func int64p(v int64) *int64 { return &v }

func stringp(v string) *string { return &v }

func testMessage(steamID64 int64, occurredAt time.Time, text string) *schema.Message {
	iso := occurredAt.UTC().Format(time.RFC3339)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s", steamID64, iso, text)))
	return &schema.Message{
		HashKey:    hex.EncodeToString(sum[:]),
		SteamID64:  steamID64,
		OccurredAt: occurredAt,
		Text:       text,
	}
}

func TestUpsertPlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts then updates by roster id", func(t *testing.T) {
		st := initPGTestDB(t)

		player := &schema.Player{
			RosterID:    42,
			SteamID64:   int64p(76561197994110447),
			DisplayName: "Original Name",
			ProfileURL:  stringp("https://ozfortress.com/users/42"),
		}
		require.NoError(t, st.UpsertPlayer(ctx, player))

		updated := &schema.Player{
			RosterID:    42,
			SteamID64:   int64p(76561197994110447),
			DisplayName: "New Name",
			ProfileURL:  stringp("https://ozfortress.com/users/42"),
		}
		require.NoError(t, st.UpsertPlayer(ctx, updated))

		ids, err := st.GetPlayerSteamIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{76561197994110447}, ids)

		maxID, err := st.GetMaxRosterID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(42), maxID)
	})

	t.Run("never clears a linked steam id", func(t *testing.T) {
		st := initPGTestDB(t)

		require.NoError(t, st.UpsertPlayer(ctx, &schema.Player{
			RosterID:    7,
			SteamID64:   int64p(76561197994110447),
			DisplayName: "Linked",
		}))

		// A later probe that finds no steam link must not null the column.
		require.NoError(t, st.UpsertPlayer(ctx, &schema.Player{
			RosterID:    7,
			SteamID64:   nil,
			DisplayName: "Linked",
		}))

		ids, err := st.GetPlayerSteamIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{76561197994110447}, ids)
	})

	t.Run("never blanks a display name", func(t *testing.T) {
		st := initPGTestDB(t)

		require.NoError(t, st.UpsertPlayer(ctx, &schema.Player{
			RosterID:    7,
			DisplayName: "Proper Name",
		}))
		require.NoError(t, st.UpsertPlayer(ctx, &schema.Player{
			RosterID:    7,
			DisplayName: "  ",
		}))

		var player schema.Player
		// Read back through the same transaction
		pgs := st.(*pgStore)
		require.NoError(t, pgs.db.WithContext(ctx).First(&player, "roster_id = ?", 7).Error)
		assert.Equal(t, "Proper Name", player.DisplayName)
	})

	t.Run("unlinked players are excluded from id listing", func(t *testing.T) {
		st := initPGTestDB(t)

		require.NoError(t, st.UpsertPlayer(ctx, &schema.Player{RosterID: 1, DisplayName: "user_1"}))
		require.NoError(t, st.UpsertPlayer(ctx, &schema.Player{
			RosterID:    2,
			SteamID64:   int64p(76561197994110447),
			DisplayName: "linked",
		}))

		ids, err := st.GetPlayerSteamIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{76561197994110447}, ids)
	})

	t.Run("empty roster has frontier zero", func(t *testing.T) {
		st := initPGTestDB(t)

		maxID, err := st.GetMaxRosterID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), maxID)
	})
}

func TestInsertMessages(t *testing.T) {
	ctx := context.Background()
	occurredAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("duplicate hashes insert once", func(t *testing.T) {
		st := initPGTestDB(t)

		first := []*schema.Message{
			testMessage(76561197994110447, occurredAt, "one"),
			testMessage(76561197994110447, occurredAt, "two"),
		}
		n, err := st.InsertMessages(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		// Re-running the same window inserts nothing new.
		again := []*schema.Message{
			testMessage(76561197994110447, occurredAt, "one"),
			testMessage(76561197994110447, occurredAt, "two"),
			testMessage(76561197994110447, occurredAt, "three"),
		}
		n, err = st.InsertMessages(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		st := initPGTestDB(t)

		n, err := st.InsertMessages(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestInsertRawMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("appends without deduplication", func(t *testing.T) {
		st := initPGTestDB(t)

		rows := []*schema.RawMessage{
			{Source: "slurs.tf", Text: stringp("same"), Payload: []byte(`{"text":"same"}`)},
			{Source: "slurs.tf", Text: stringp("same"), Payload: []byte(`{"text":"same"}`)},
		}
		n, err := st.InsertRawMessages(ctx, rows)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = st.InsertRawMessages(ctx, rows[:1])
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestListMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("joins roster names and honors since", func(t *testing.T) {
		st := initPGTestDB(t)

		require.NoError(t, st.UpsertPlayer(ctx, &schema.Player{
			RosterID:    42,
			SteamID64:   int64p(76561197994110447),
			DisplayName: "Known Player",
		}))

		old := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		recent := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		_, err := st.InsertMessages(ctx, []*schema.Message{
			testMessage(76561197994110447, old, "old message"),
			testMessage(76561197994110447, recent, "recent message"),
		})
		require.NoError(t, err)

		all, err := st.ListMessages(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		// Newest first
		assert.Equal(t, "recent message", all[0].Text)
		assert.Equal(t, "Known Player", all[0].DisplayName)

		since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		windowed, err := st.ListMessages(ctx, &since)
		require.NoError(t, err)
		require.Len(t, windowed, 1)
		assert.Equal(t, "recent message", windowed[0].Text)
	})
}

func TestWatermark(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips and overwrites", func(t *testing.T) {
		st := initPGTestDB(t)

		wm, err := st.GetWatermark(ctx)
		require.NoError(t, err)
		assert.Nil(t, wm)

		first := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		require.NoError(t, st.SetWatermark(ctx, first))

		wm, err = st.GetWatermark(ctx)
		require.NoError(t, err)
		require.NotNil(t, wm)
		assert.True(t, wm.Equal(first))

		second := first.Add(24 * time.Hour)
		require.NoError(t, st.SetWatermark(ctx, second))

		wm, err = st.GetWatermark(ctx)
		require.NoError(t, err)
		require.NotNil(t, wm)
		assert.True(t, wm.Equal(second))
	})
}
