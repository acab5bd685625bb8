package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rummage/shopkeeper/internal/models"
)

func TestRecordVisitCountsPerCustomer(t *testing.T) {
	svc := NewLoyaltyService(0)

	for _, name := range []string{"JD", "Ana", " JD ", "JD"} {
		_, err := svc.RecordVisit(name)
		require.NoError(t, err)
	}

	customers := svc.List()
	require.Len(t, customers, 2)
	assert.Equal(t, "JD", customers[0].Name)
	assert.Equal(t, 3, customers[0].Visits)
	assert.Equal(t, "Ana", customers[1].Name)
	assert.Equal(t, 1, customers[1].Visits)
	assert.Equal(t, [][]string{{"JD", "3"}, {"Ana", "1"}}, svc.Records())
}

func TestRecordVisitRequiresName(t *testing.T) {
	svc := NewLoyaltyService(5)

	_, err := svc.RecordVisit("  ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, svc.List())
}

func TestLoyaltyCard(t *testing.T) {
	svc := NewLoyaltyService(3)

	_, err := svc.Card("nobody")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	visit := func() *models.LoyaltyCard {
		_, err := svc.RecordVisit("Mia")
		require.NoError(t, err)
		card, err := svc.Card("Mia")
		require.NoError(t, err)
		return card
	}

	card := visit()
	assert.Equal(t, 1, card.Punches)
	assert.Equal(t, 2, card.Remaining)
	assert.False(t, card.RewardReady)
	assert.Equal(t, "Loyalty card for Mia\n●○○ 1/3\nTotal visits: 1\n2 more visits until your reward!", card.Description)

	card = visit()
	assert.Contains(t, card.Description, "Just 1 more visit until your reward!")

	card = visit()
	assert.True(t, card.RewardReady)
	assert.Equal(t, 0, card.Remaining)
	assert.Contains(t, card.Description, "●●● 3/3")
	assert.Contains(t, card.Description, "Card complete!")

	card = visit()
	assert.Equal(t, 4, card.Visits)
	assert.Equal(t, 1, card.Punches)
	assert.False(t, card.RewardReady)
}
