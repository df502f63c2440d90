package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mfalcone/soldi/internal/classifier"
	"github.com/mfalcone/soldi/internal/storage"
)

func databasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "soldi", "soldi.db"), nil
}

func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// newClassifier builds a classifier whose merchant cache is warmed from
// the persisted transaction history.
func newClassifier(ctx context.Context, store *storage.SQLiteStorage) (*classifier.Classifier, error) {
	cls := classifier.New(store)

	history, err := store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transaction history: %w", err)
	}
	cls.RebuildCacheFromHistory(history)

	return cls, nil
}
