package model

import "time"

// Account is the part of an account record scout reads and patches
type Account struct {
	ID                 string             `json:"account_id" yaml:"account_id"`
	Name               string             `json:"name,omitempty" yaml:"name,omitempty"`
	CorporateStructure *DetectedStructure `json:"corporate_structure,omitempty" yaml:"corporate_structure,omitempty"`
}

// Snapshot is everything needed to review findings for one account offline
type Snapshot struct {
	Account      Account       `json:"account" yaml:"account"`
	Stakeholders []Stakeholder `json:"stakeholders" yaml:"stakeholders"`
	Divisions    []Division    `json:"divisions" yaml:"divisions"`
	SyncedAt     time.Time     `json:"synced_at" yaml:"synced_at"`
}
