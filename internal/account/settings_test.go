package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trade-journal-go/internal/database"
)

func setupService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return NewService(db, zap.NewNop())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 5000.0, s.StartingEquity[DefaultAccountKey])
	assert.Equal(t, "All Dates", s.Defaults.Timeframe)
	assert.Equal(t, "ALL", s.Defaults.Account)
	assert.Equal(t, "Styled", s.Defaults.JournalView)
	assert.NotNil(t, s.JournalGroups)
}

func TestStartEquityFor(t *testing.T) {
	s := DefaultSettings()
	s.StartingEquity["futures"] = 25000

	assert.Equal(t, 25000.0, s.StartEquityFor("futures"))
	assert.Equal(t, 5000.0, s.StartEquityFor("unknown"))
}

func TestServiceLoad(t *testing.T) {
	t.Run("ReturnsDefaultsWhenEmpty", func(t *testing.T) {
		svc := setupService(t)

		got, err := svc.Load()

		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(), got)
	})

	t.Run("SaveLoadRoundtrip", func(t *testing.T) {
		svc := setupService(t)
		s := DefaultSettings()
		s.Profile.Username = "trader"
		s.Profile.PasswordHash = HashPassword("hunter2")
		s.StartingEquity["swing"] = 12500
		s.JournalGroups["crypto"] = []string{"btc", "eth"}

		require.NoError(t, svc.Save(s))

		got, err := svc.Load()
		require.NoError(t, err)
		assert.Equal(t, "trader", got.Profile.Username)
		assert.True(t, got.CheckPassword("hunter2"))
		assert.Equal(t, 12500.0, got.StartingEquity["swing"])
		assert.Equal(t, []string{"btc", "eth"}, got.JournalGroups["crypto"])
		assert.NotNil(t, got.Profile.CreatedAt)
		assert.NotNil(t, got.Profile.UpdatedAt)
	})

	t.Run("SecondSaveOverwrites", func(t *testing.T) {
		svc := setupService(t)
		s := DefaultSettings()
		s.Profile.Username = "first"
		require.NoError(t, svc.Save(s))

		s.Profile.Username = "second"
		require.NoError(t, svc.Save(s))

		got, err := svc.Load()
		require.NoError(t, err)
		assert.Equal(t, "second", got.Profile.Username)
	})

	t.Run("CreatedAtSurvivesResave", func(t *testing.T) {
		svc := setupService(t)
		s := DefaultSettings()
		require.NoError(t, svc.Save(s))

		first, err := svc.Load()
		require.NoError(t, err)
		require.NotNil(t, first.Profile.CreatedAt)

		require.NoError(t, svc.Save(first))
		second, err := svc.Load()
		require.NoError(t, err)
		assert.Equal(t, first.Profile.CreatedAt.Unix(), second.Profile.CreatedAt.Unix())
	})
}

func TestPasswords(t *testing.T) {
	hash := HashPassword("correct horse")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashPassword("correct horse"))

	s := Settings{}
	s.Profile.PasswordHash = hash
	assert.True(t, s.CheckPassword("correct horse"))
	assert.False(t, s.CheckPassword("wrong"))

	// no stored hash never matches, not even the empty password
	assert.False(t, Settings{}.CheckPassword(""))
}
