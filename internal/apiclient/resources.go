package apiclient

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/spec-kit/barber-dashboard/internal/domain"
)

// SessionResponse is the payload returned by the sign-in endpoint.
type SessionResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Address      string               `json:"endereco"`
	Token        string               `json:"token"`
	Subscription *domain.Subscription `json:"subscriptions"`
}

// User converts the session payload into the profile model.
func (r *SessionResponse) User() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Address:      r.Address,
		Subscription: r.Subscription,
	}
}

// CreateSession exchanges credentials for a session token.
func (c *Client) CreateSession(ctx context.Context, email, password string) (*SessionResponse, error) {
	var out SessionResponse
	err := c.Post(ctx, "/session", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterUser creates a new account.
func (c *Client) RegisterUser(ctx context.Context, name, email, password string) error {
	return c.Post(ctx, "/users", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
}

// Me returns the profile for the current bearer token.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.Get(ctx, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the operator's name and address.
func (c *Client) UpdateProfile(ctx context.Context, name, address string) error {
	return c.Put(ctx, "/users", map[string]string{
		"name":     name,
		"endereco": address,
	}, nil)
}

// RecoverPassword requests a password recovery email.
func (c *Client) RecoverPassword(ctx context.Context, email string) error {
	return c.Post(ctx, "/password/recover", map[string]string{"email": email}, nil)
}

// ResetPassword redeems a recovery token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.Post(ctx, "/password/reset", map[string]string{
		"token":    token,
		"password": password,
	}, nil)
}

// Customers lists the shop's customers.
func (c *Client) Customers(ctx context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	if err := c.Get(ctx, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCustomer registers a new customer.
func (c *Client) CreateCustomer(ctx context.Context, customer domain.Customer) error {
	return c.Post(ctx, "/customer", customer, nil)
}

// DeleteCustomer removes a customer. The server rejects customers that
// still have pending appointments; that rejection surfaces as a
// validation error with a pending-appointments message.
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.Delete(ctx, "/customer/"+id)
}

// CustomerSchedules lists a customer's pending appointments.
func (c *Client) CustomerSchedules(ctx context.Context, id string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	if err := c.Get(ctx, "/customer/"+id+"/schedules", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Haircuts lists services, filtered by active status.
func (c *Client) Haircuts(ctx context.Context, activeOnly bool) ([]domain.Haircut, error) {
	query := url.Values{"status": {strconv.FormatBool(activeOnly)}}
	var out []domain.Haircut
	if err := c.Get(ctx, "/haircuts", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HaircutDetail fetches one service.
func (c *Client) HaircutDetail(ctx context.Context, id string) (*domain.Haircut, error) {
	query := url.Values{"haircut_id": {id}}
	var out domain.Haircut
	if err := c.Get(ctx, "/haircut/detail", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateHaircut registers a new service.
func (c *Client) CreateHaircut(ctx context.Context, name string, price float64) error {
	return c.Post(ctx, "/haircut", map[string]any{
		"name":  name,
		"price": price,
	}, nil)
}

// UpdateHaircut changes a service's name and price.
func (c *Client) UpdateHaircut(ctx context.Context, haircut domain.Haircut) error {
	return c.Put(ctx, "/haircut", map[string]any{
		"haircut_id": haircut.ID,
		"name":       haircut.Name,
		"price":      haircut.Price,
	}, nil)
}

// SetHaircutStatus enables or disables a service.
func (c *Client) SetHaircutStatus(ctx context.Context, id string, status bool) error {
	return c.Put(ctx, "/haircut/status", map[string]any{
		"haircut_id": id,
		"status":     status,
	}, nil)
}

// HaircutCount returns how many services the shop has registered.
func (c *Client) HaircutCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.Get(ctx, "/haircut/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Agenda lists the open appointments.
func (c *Client) Agenda(ctx context.Context) ([]domain.Appointment, error) {
	var out []domain.Appointment
	if err := c.Get(ctx, "/schedule", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewAppointment books a customer onto a service. The client timezone is
// injected into the body automatically.
func (c *Client) NewAppointment(ctx context.Context, customer, haircutID string, date time.Time) error {
	return c.Post(ctx, "/schedule", map[string]any{
		"customer":      customer,
		"haircut_id":    haircutID,
		"schedule_date": date.Format(time.RFC3339),
	}, nil)
}

// FinishAppointment marks an appointment completed or cancelled.
func (c *Client) FinishAppointment(ctx context.Context, id string, status domain.AppointmentStatus) error {
	return c.Patch(ctx, "/schedule/finish", map[string]any{
		"schedule_id": id,
		"status":      status,
	}, nil)
}

// BusinessHours fetches the shop's bookable window.
func (c *Client) BusinessHours(ctx context.Context) (*domain.BusinessHours, error) {
	var out domain.BusinessHours
	if err := c.Get(ctx, "/schedule/business-hours", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBusinessHours changes the shop's bookable window.
func (c *Client) UpdateBusinessHours(ctx context.Context, hours domain.BusinessHours) error {
	return c.Put(ctx, "/schedule/business-hours", hours, nil)
}

// SubscriptionDetails is the diagnostic payload for the premium plan.
type SubscriptionDetails struct {
	Subscription *domain.Subscription `json:"subscription"`
	User         *domain.User         `json:"user"`
}

// VerifySubscription fetches the detailed subscription state.
func (c *Client) VerifySubscription(ctx context.Context) (*SubscriptionDetails, error) {
	var out SubscriptionDetails
	if err := c.Get(ctx, "/verify-subscription-details", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RepairSubscription asks the server to reconcile a broken subscription.
func (c *Client) RepairSubscription(ctx context.Context) error {
	return c.Post(ctx, "/repair-subscription", nil, nil)
}

// Subscribe starts a premium checkout and returns the checkout URL.
func (c *Client) Subscribe(ctx context.Context) (string, error) {
	var out struct {
		SessionURL string `json:"url"`
	}
	if err := c.Post(ctx, "/subscribe", nil, &out); err != nil {
		return "", err
	}
	return out.SessionURL, nil
}

// CreatePortal opens the billing portal and returns its URL.
func (c *Client) CreatePortal(ctx context.Context) (string, error) {
	var out struct {
		PortalURL string `json:"url"`
	}
	if err := c.Post(ctx, "/create-portal", nil, &out); err != nil {
		return "", err
	}
	return out.PortalURL, nil
}
