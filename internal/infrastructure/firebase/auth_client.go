package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"

	"evenapp/internal/domain/entity"
	"evenapp/pkg/errors"
)

// AdminClaim is the custom claim that grants access to moderation routes.
const AdminClaim = "admin"

// VerifiedToken is what the HTTP layer keeps from a verified ID token.
type VerifiedToken struct {
	UID   string
	Admin bool
}

// FirebaseAuthClient verifies ID tokens and doubles as the identity
// collaborator: user records and their verified phone numbers live in
// Firebase Auth.
type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*VerifiedToken, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &VerifiedToken{
		UID:   result.UID,
		Admin: claimIsTrue(result.Claims, AdminClaim),
	}, nil
}

// GetByUID returns nil, nil for unknown users.
func (f *FirebaseAuthClient) GetByUID(ctx context.Context, uid string) (*entity.User, error) {
	record, err := f.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, nil
		}
		return nil, errors.Internal("Failed to load user", err)
	}

	return toUser(record), nil
}

// TestConnection asks for a single user page to prove credentials work.
func (f *FirebaseAuthClient) TestConnection(ctx context.Context) error {
	_, err := f.client.Users(ctx, "").Next()
	if err != nil && err != iterator.Done {
		return err
	}
	return nil
}

func toUser(record *auth.UserRecord) *entity.User {
	if record.UserInfo == nil {
		return &entity.User{}
	}
	return &entity.User{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		// Firebase only stores phone numbers that passed SMS verification.
		Phone: record.PhoneNumber,
	}
}

func claimIsTrue(claims map[string]interface{}, name string) bool {
	v, ok := claims[name].(bool)
	return ok && v
}
