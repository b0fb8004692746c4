package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymlog/internal/models"
)

// GetOrCreateUser resolves a Tailscale login to an account, creating it on
// first sight. Every call refreshes last_seen; a non-empty display name
// replaces the stored one, so renames on the tailnet propagate.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id, login, display_name, last_seen
	`, login, displayName).Scan(&u.ID, &u.Login, &u.DisplayName, &u.LastSeen)
	if err != nil {
		return models.User{}, fmt.Errorf("upserting user %q: %w", login, err)
	}
	return u, nil
}
