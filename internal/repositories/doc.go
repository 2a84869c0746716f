// Package repositories implements SQLite persistence for the local state moviex keeps.
//
// Key Implementations:
//   - [DraftRepository] : editable records the backend rejected, kept with their field messages
//   - [ViewRepository] : named catalog view presets with name-based lookups
//
// Schemas come from the embedded migrations in the shared package; open the database with
// [shared.NewDatabase] and call [shared.RunMigrations] before use.
package repositories
