// Package model holds the domain types shared by the repository, service and HTTP layers.
// Types carry JSON tags only; SQL stays in the repositories.
package model
