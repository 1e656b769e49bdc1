package database

import (
	"context"
	"fmt"
	"time"
)

type CalculationRow struct {
	When            time.Time
	Zone            string
	DurationMinutes int
	TopN            int
	WindowStart     int
	WindowEnd       int
	CacheHit        bool
	Status          string
	Slots           string // ranked slots as JSON
}

func (d *Database) SaveCalculation(ctx context.Context, row CalculationRow) error {
	_, err := d.write.ExecContext(ctx, `
		INSERT INTO calculation
			(created_at, zone, duration_minutes, top_n, window_start, window_end, cache_hit, status, slots)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.When.UTC().Format(time.RFC3339),
		row.Zone,
		row.DurationMinutes,
		row.TopN,
		row.WindowStart,
		row.WindowEnd,
		row.CacheHit,
		row.Status,
		row.Slots)
	if err != nil {
		return fmt.Errorf("saving calculation: %w", err)
	}
	return nil
}

func (d *Database) GetCalculations(ctx context.Context, limit int) ([]CalculationRow, error) {
	if limit < 1 {
		limit = 25
	}

	rows, err := d.read.QueryContext(ctx, `
		SELECT created_at, zone, duration_minutes, top_n, window_start, window_end, cache_hit, status, slots
		FROM calculation
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching calculations: %w", err)
	}
	defer rows.Close()

	var ts string
	var calculations []CalculationRow
	for rows.Next() {
		var r CalculationRow
		err := rows.Scan(&ts, &r.Zone, &r.DurationMinutes, &r.TopN,
			&r.WindowStart, &r.WindowEnd, &r.CacheHit, &r.Status, &r.Slots)
		if err != nil {
			return nil, err
		}
		r.When, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		calculations = append(calculations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading calculation rows: %w", err)
	}

	return calculations, nil
}

func (d *Database) PurgeCalculations(ctx context.Context, retentionDays int) error {
	d.logger.Debug("purging calculations", "retentionDays", retentionDays)

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	_, err := d.write.ExecContext(ctx,
		`DELETE FROM calculation WHERE created_at < ?`,
		cutoff.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("purging calculations: %w", err)
	}
	return nil
}
