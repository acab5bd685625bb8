package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rummage/shopkeeper/internal/models"
)

func promoRequest(platform models.Platform) *models.PromoRequest {
	return &models.PromoRequest{
		Title:     "Spring Sale",
		Details:   "30% off all toys and jackets!",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		Platform:  platform,
	}
}

func TestPromoCaptions(t *testing.T) {
	svc := NewPromoService()

	tests := []struct {
		platform models.Platform
		want     string
	}{
		{
			models.PlatformInstagram,
			"Spring Sale is here! 🎉\n30% off all toys and jackets!\nCome see us between Mar 01 and Mar 09!\n#resalekids #momlife #dealsforkids",
		},
		{
			models.PlatformFacebook,
			"Spring Sale is here! 🎉\n30% off all toys and jackets!\nCome see us between Mar 01 and Mar 09!\n🧸👕👶 Come shop local with us!",
		},
		{
			models.PlatformTextMessage,
			"Spring Sale: 30% off all toys and jackets! (03/01–03/09)",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			promo, err := svc.Generate(promoRequest(tt.platform))
			require.NoError(t, err)
			assert.Equal(t, tt.platform, promo.Platform)
			assert.Equal(t, tt.want, promo.Caption)
		})
	}
}

func TestPromoValidation(t *testing.T) {
	svc := NewPromoService()

	req := promoRequest("Fax")
	req.Title = " "
	req.EndDate = req.StartDate.AddDate(0, 0, -1)

	_, err := svc.Generate(req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "end_date")
	assert.Contains(t, verr.Fields, "platform")
	assert.Equal(t, "validation failed: end_date: End date must be after start date; platform: Platform must be Instagram, Facebook or Text Message; title: Event name is required", err.Error())
}
