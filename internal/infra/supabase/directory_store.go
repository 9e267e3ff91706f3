package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/kittipos/namecard-bff-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// GetProfile fetches a user's profile row.
func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "supabase.GetProfile",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	path := fmt.Sprintf("profiles?user_id=eq.%s&limit=1", url.QueryEscape(userID))

	var profile *domain.Profile
	err := c.getWithResilience(ctx, "supabase", path, func(body []byte) error {
		var rows []domain.Profile
		if len(body) == 0 {
			return &domain.ErrNotFound{Resource: "profile", ID: userID}
		}
		if err := json.Unmarshal(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "profile", ID: userID}
		}
		profile = &rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile patches a profile row.
func (c *Client) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "supabase.UpdateProfile",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	path := fmt.Sprintf("profiles?user_id=eq.%s", url.QueryEscape(userID))
	body, err := c.doPatch(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []domain.Profile
	if len(body) > 0 {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "profile", ID: userID}
	}
	return &rows[0], nil
}

// ListAddresses returns a user's saved addresses, default first.
func (c *Client) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	ctx, span := tracer.Start(ctx, "supabase.ListAddresses",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	path := fmt.Sprintf("addresses?user_id=eq.%s&order=is_default.desc,created_at.desc", url.QueryEscape(userID))

	addresses := []domain.Address{}
	err := c.getWithResilience(ctx, "supabase", path, func(body []byte) error {
		if len(body) == 0 {
			return nil
		}
		return json.Unmarshal(body, &addresses)
	})
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress inserts an address and returns the stored row.
func (c *Client) CreateAddress(ctx context.Context, addr *domain.Address) (*domain.Address, error) {
	ctx, span := tracer.Start(ctx, "supabase.CreateAddress")
	defer span.End()

	body, err := c.doPost(ctx, "addresses", addr)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []domain.Address
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("insert returned no rows")}
	}

	c.logger.Info("address created", zap.String("address_id", rows[0].ID))
	return &rows[0], nil
}

// UpdateAddress patches an address row.
func (c *Client) UpdateAddress(ctx context.Context, addressID string, updates map[string]any) (*domain.Address, error) {
	ctx, span := tracer.Start(ctx, "supabase.UpdateAddress",
		trace.WithAttributes(attribute.String("address.id", addressID)))
	defer span.End()

	path := fmt.Sprintf("addresses?id=eq.%s", url.QueryEscape(addressID))
	body, err := c.doPatch(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []domain.Address
	if len(body) > 0 {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "address", ID: addressID}
	}
	return &rows[0], nil
}

// DeleteAddress removes an address row.
func (c *Client) DeleteAddress(ctx context.Context, addressID string) error {
	ctx, span := tracer.Start(ctx, "supabase.DeleteAddress",
		trace.WithAttributes(attribute.String("address.id", addressID)))
	defer span.End()

	path := fmt.Sprintf("addresses?id=eq.%s", url.QueryEscape(addressID))
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
