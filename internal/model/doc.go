// Package model defines the core data structures used throughout packfix.
//
// # Pack
//
// Pack represents a ZIP resource package with its computed backup path and
// its position in the repair lifecycle:
//
//	pack := model.NewPack("/packs/retro.zip", "backup_")
//	fmt.Println(pack.BackupPath) // "/packs/backup_retro.zip"
//
// Each pack moves through a trivial state machine:
//
//	pending → clean | skipped | repaired | failed
//
// # Entry classification
//
// EntryConfig decides which archive entries are text-bearing and therefore
// inspected for the obsolete fallback token:
//
//	cfg := &model.EntryConfig{TextExtensions: []string{".json"}}
//	cfg.IsTextEntry("assets/models/item/sword.json", data) // true for UTF-8 data
//	cfg.IsTextEntry("assets/textures/sword.png", data)     // false
package model
