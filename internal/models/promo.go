package models

import (
	"strings"
	"time"
)

type Platform string

const (
	PlatformInstagram   Platform = "Instagram"
	PlatformFacebook    Platform = "Facebook"
	PlatformTextMessage Platform = "Text Message"
)

var Platforms = []Platform{
	PlatformInstagram,
	PlatformFacebook,
	PlatformTextMessage,
}

type PromoRequest struct {
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Platform  Platform  `json:"platform"`
}

type Promo struct {
	Platform Platform `json:"platform"`
	Caption  string   `json:"caption"`
}

func (r *PromoRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		errors["title"] = "Event name is required"
	}
	if r.StartDate.IsZero() {
		errors["start_date"] = "Start date is required"
	}
	if r.EndDate.IsZero() {
		errors["end_date"] = "End date is required"
	}
	if !r.EndDate.IsZero() && !r.StartDate.IsZero() && r.EndDate.Before(r.StartDate) {
		errors["end_date"] = "End date must be after start date"
	}
	if !validPlatform(r.Platform) {
		errors["platform"] = "Platform must be Instagram, Facebook or Text Message"
	}

	return errors
}

func validPlatform(p Platform) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}
