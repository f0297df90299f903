package graph

import (
	"context"
	"strings"

	"habittracker/internal/auth"
	"habittracker/internal/service"
)

func (r *Resolver) Register(ctx context.Context, args struct{ Data RegisterInput }) (*userResolver, error) {
	in := args.Data
	in.Email = strings.TrimSpace(in.Email)
	if err := r.check(ctx, in, GuardArgs{}); err != nil {
		return nil, r.present(ctx, "register", err)
	}

	u, err := r.authSvc.Register(ctx, service.RegisterParams{
		Email:     in.Email,
		Password:  in.Password,
		Username:  in.Username,
		Firstname: in.Firstname,
		Lastname:  in.Lastname,
	})
	if err != nil {
		return nil, r.present(ctx, "register", err)
	}
	return &userResolver{r: r, u: u}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct{ Data LoginInput }) (*loginPayloadResolver, error) {
	in := args.Data
	in.Email = strings.TrimSpace(in.Email)
	if err := r.check(ctx, in, GuardArgs{}); err != nil {
		return nil, r.present(ctx, "login", err)
	}

	u, pair, err := r.authSvc.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, r.present(ctx, "login", err)
	}
	r.setAuthCookies(ctx, pair)

	return &loginPayloadResolver{user: &userResolver{r: r, u: u}}, nil
}

// RevokeTokens is false for anonymous callers rather than an error.
func (r *Resolver) RevokeTokens(ctx context.Context) (bool, error) {
	username := auth.UsernameFromContext(ctx)
	if username == "" {
		return false, nil
	}

	ok, err := r.authSvc.RevokeTokens(ctx, username)
	if err != nil {
		return false, r.present(ctx, "revokeTokens", err)
	}
	return ok, nil
}
