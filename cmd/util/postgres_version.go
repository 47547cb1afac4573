package util

import (
	"context"
	"database/sql"
	"fmt"
)

// MinRowSecurityVersion is the first server_version_num with row-level
// security (9.5).
const MinRowSecurityVersion = 90500

// ServerVersion returns server_version_num of the connected server, e.g.
// 170005 for 17.5.
func ServerVersion(ctx context.Context, db *sql.DB) (int, error) {
	var versionNum int
	if err := db.QueryRowContext(ctx, "SHOW server_version_num").Scan(&versionNum); err != nil {
		return 0, fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}
	return versionNum, nil
}

// CheckRowSecuritySupport fails when the server predates row-level security.
func CheckRowSecuritySupport(versionNum int) error {
	if versionNum < MinRowSecurityVersion {
		return fmt.Errorf("PostgreSQL %s does not support row level security (requires 9.5 or later)", FormatVersion(versionNum))
	}
	return nil
}

// FormatVersion renders server_version_num as major.minor. Versions before 10
// use a two-part major number.
func FormatVersion(versionNum int) string {
	if versionNum >= 100000 {
		return fmt.Sprintf("%d.%d", versionNum/10000, versionNum%10000)
	}
	return fmt.Sprintf("%d.%d.%d", versionNum/10000, versionNum/100%100, versionNum%100)
}
