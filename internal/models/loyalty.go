package models

import "time"

type Customer struct {
	Name      string    `json:"name"`
	Visits    int       `json:"visits"`
	FirstSeen time.Time `json:"first_seen"`
	LastVisit time.Time `json:"last_visit"`
}

type RecordVisitRequest struct {
	Customer string `json:"customer"`
}

// LoyaltyCard is the printable description of a customer's punch card.
type LoyaltyCard struct {
	Customer    string `json:"customer"`
	Visits      int    `json:"visits"`
	Punches     int    `json:"punches"`
	CardSize    int    `json:"card_size"`
	Remaining   int    `json:"remaining"`
	RewardReady bool   `json:"reward_ready"`
	Description string `json:"description"`
}

// LoyaltyHeader is the column order of the loyalty CSV export.
var LoyaltyHeader = []string{"Customer", "Visits"}
