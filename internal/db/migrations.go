package db

// RunMigrations creates the partitions table.
func (r *Repository) RunMigrations() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS partitions (
            name TEXT PRIMARY KEY,
            data TEXT NOT NULL,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}
