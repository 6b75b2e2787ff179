// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

// Package backup writes scheduled snapshots of the document store and
// prunes them by a retention policy.
//
// Each snapshot is a gzip-compressed Badger backup stream with a JSON
// metadata sidecar holding its size and SHA-256 checksum:
//
//	backup-20261018T030000Z.badger.gz
//	backup-20261018T030000Z.json
//
// # Retention Policy
//
//	MinCount   - newest snapshots always kept (protection floor)
//	MaxCount   - hard ceiling on stored snapshots (0 = unlimited)
//	MaxAgeDays - snapshots older than this are removed (0 = unlimited)
//
// # Usage
//
//	manager, err := backup.NewManager(afero.NewOsFs(), &cfg.Backup, db)
//	if err != nil {
//		return err
//	}
//	tree.AddMaintenanceService(services.NewPeriodicService("store-backup", cfg.Backup.Interval, manager.Run))
//
// Restore verifies the checksum before any key is written:
//
//	err := manager.Restore(ctx, backupID, db)
package backup
