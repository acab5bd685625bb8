package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rummage/shopkeeper/internal/models"
)

var ErrCustomerNotFound = errors.New("customer not found")

const DefaultCardSize = 10

// LoyaltyService counts visits per customer for the session.
type LoyaltyService struct {
	mu        sync.RWMutex
	customers []*models.Customer
	byName    map[string]*models.Customer
	cardSize  int
	now       func() time.Time
}

func NewLoyaltyService(cardSize int) *LoyaltyService {
	if cardSize <= 0 {
		cardSize = DefaultCardSize
	}
	return &LoyaltyService{
		byName:   make(map[string]*models.Customer),
		cardSize: cardSize,
		now:      time.Now,
	}
}

// RecordVisit adds one visit for the named customer, creating the customer on
// their first visit.
func (s *LoyaltyService) RecordVisit(name string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Fields: map[string]string{"customer": "Customer name or initials are required"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	c, exists := s.byName[name]
	if !exists {
		c = &models.Customer{Name: name, FirstSeen: now}
		s.customers = append(s.customers, c)
		s.byName[name] = c
	}
	c.Visits++
	c.LastVisit = now

	out := *c
	return &out, nil
}

func (s *LoyaltyService) List() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, *c)
	}
	return out
}

// Records renders the customer list in LoyaltyHeader order.
func (s *LoyaltyService) Records() [][]string {
	customers := s.List()
	records := make([][]string, 0, len(customers))
	for _, c := range customers {
		records = append(records, []string{c.Name, fmt.Sprint(c.Visits)})
	}
	return records
}

// Card describes the customer's current punch card. A full card is reported
// as ready; the next visit starts a new card.
func (s *LoyaltyService) Card(name string) (*models.LoyaltyCard, error) {
	s.mu.RLock()
	c, exists := s.byName[strings.TrimSpace(name)]
	var customer models.Customer
	if exists {
		customer = *c
	}
	s.mu.RUnlock()

	if !exists {
		return nil, ErrCustomerNotFound
	}

	punches := customer.Visits % s.cardSize
	if punches == 0 && customer.Visits > 0 {
		punches = s.cardSize
	}
	card := &models.LoyaltyCard{
		Customer:    customer.Name,
		Visits:      customer.Visits,
		Punches:     punches,
		CardSize:    s.cardSize,
		Remaining:   s.cardSize - punches,
		RewardReady: punches == s.cardSize,
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Loyalty card for %s\n", card.Customer)
	fmt.Fprintf(&b, "%s %d/%d\n", punchRow(card.Punches, card.CardSize), card.Punches, card.CardSize)
	fmt.Fprintf(&b, "Total visits: %d\n", card.Visits)
	if card.RewardReady {
		b.WriteString("Card complete! Enjoy your reward on this visit.")
	} else if card.Remaining == 1 {
		b.WriteString("Just 1 more visit until your reward!")
	} else {
		fmt.Fprintf(&b, "%d more visits until your reward!", card.Remaining)
	}
	card.Description = b.String()

	return card, nil
}

func punchRow(punches, size int) string {
	return strings.Repeat("●", punches) + strings.Repeat("○", size-punches)
}
