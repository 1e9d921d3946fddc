package domain

// SubscriptionStatus mirrors the remote subscription states.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
)

// Subscription is the premium-plan record attached to a user profile.
type Subscription struct {
	ID     string             `json:"id"`
	Status SubscriptionStatus `json:"status"`
}

// Active reports whether the subscription grants premium access.
func (s *Subscription) Active() bool {
	return s != nil && s.Status == SubscriptionStatusActive
}

// User is the authenticated dashboard operator, as returned by the
// remote profile endpoints. The wire field names follow the remote API.
type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Address      string        `json:"endereco"`
	Subscription *Subscription `json:"subscriptions"`
}

// Premium reports whether the user has an active subscription.
func (u *User) Premium() bool {
	return u != nil && u.Subscription.Active()
}
