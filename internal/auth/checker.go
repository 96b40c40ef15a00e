package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

type Checker interface {
	// IsLogged resolves a session token into the id of the logged user.
	IsLogged(ctx context.Context, token string) (userID int, logged bool, err error)
}
