package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/types"
)

// DemoUserName is the display name handed out by Login, which has no way to
// know the shopper's real name
const DemoUserName = "Demo User"

const tokenTTL = 24 * time.Hour

// MockProvider fabricates identities after a simulated delay. Credentials are
// never checked.
type MockProvider struct {
	latency time.Duration
	secret  []byte
	now     func() time.Time
}

func NewMockProvider(latency time.Duration, secret string) *MockProvider {
	return &MockProvider{
		latency: latency,
		secret:  []byte(secret),
		now:     time.Now,
	}
}

func (p *MockProvider) Login(ctx context.Context, email, password string) (models.Identity, error) {
	return p.issue(ctx, DemoUserName, email)
}

func (p *MockProvider) Register(ctx context.Context, name, email, password string) (models.Identity, error) {
	return p.issue(ctx, name, email)
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) issue(ctx context.Context, name, email string) (models.Identity, error) {
	// Simulate network delay
	if err := sleep(ctx, p.latency); err != nil {
		return models.Identity{}, err
	}

	id := userID(email)
	token, err := p.signToken(id, name, email)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return models.Identity{
		ID:    id,
		Name:  name,
		Email: email,
		Token: token,
	}, nil
}

func (p *MockProvider) signToken(id, name, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   id,
		"name":  name,
		"email": email,
		"iat":   p.now().Unix(),
		"exp":   p.now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// userID is stable per email so repeated logins map to the same shopper
func userID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ types.IdentityProvider = (*MockProvider)(nil)
