package migrations

import "gorm.io/gorm"

// migration003Up creates query indexes
func migration003Up(db *gorm.DB) error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_events_start_at ON events(start_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_events_organizer_id ON events(organizer_id)",
		"CREATE INDEX IF NOT EXISTS idx_event_attachments_event_id ON event_attachments(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_sentiments_created_at ON sentiments(created_at DESC)",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration003Down drops query indexes
func migration003Down(db *gorm.DB) error {
	statements := []string{
		"DROP INDEX IF EXISTS idx_sentiments_created_at",
		"DROP INDEX IF EXISTS idx_event_attachments_event_id",
		"DROP INDEX IF EXISTS idx_events_organizer_id",
		"DROP INDEX IF EXISTS idx_events_start_at",
		"DROP INDEX IF EXISTS idx_users_email",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
