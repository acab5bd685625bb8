package services

import (
	"fmt"
	"strings"

	"github.com/rummage/shopkeeper/internal/models"
)

var platformTaglines = map[models.Platform]string{
	models.PlatformInstagram: "#resalekids #momlife #dealsforkids",
	models.PlatformFacebook:  "🧸👕👶 Come shop local with us!",
}

type PromoService struct{}

func NewPromoService() *PromoService {
	return &PromoService{}
}

// Generate renders a promotional caption for the requested platform.
func (s *PromoService) Generate(req *models.PromoRequest) (*models.Promo, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	title := strings.TrimSpace(req.Title)
	details := strings.TrimSpace(req.Details)

	var caption string
	if req.Platform == models.PlatformTextMessage {
		caption = fmt.Sprintf("%s: %s (%s–%s)",
			title, details, req.StartDate.Format("01/02"), req.EndDate.Format("01/02"))
	} else {
		caption = fmt.Sprintf("%s is here! 🎉\n%s\nCome see us between %s and %s!",
			title, details, req.StartDate.Format("Jan 02"), req.EndDate.Format("Jan 02"))
		if tagline := platformTaglines[req.Platform]; tagline != "" {
			caption += "\n" + tagline
		}
	}

	return &models.Promo{Platform: req.Platform, Caption: caption}, nil
}
