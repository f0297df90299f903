package graph

import (
	"context"
	"strings"

	"habittracker/internal/auth"
)

func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	if err := r.check(ctx, nil, GuardArgs{}, Authenticated); err != nil {
		return nil, r.present(ctx, "me", err)
	}

	u, err := r.userSvc.FindByUsername(ctx, auth.UsernameFromContext(ctx))
	if err != nil {
		return nil, r.present(ctx, "me", err)
	}
	return &userResolver{r: r, u: u}, nil
}

func (r *Resolver) Users(ctx context.Context) ([]*userResolver, error) {
	users, err := r.userSvc.List(ctx)
	if err != nil {
		return nil, r.present(ctx, "users", err)
	}
	return r.userList(users), nil
}

func (r *Resolver) UpdatePassword(ctx context.Context, args struct{ Data UpdatePasswordInput }) (bool, error) {
	if err := r.check(ctx, args.Data, GuardArgs{}, Authenticated); err != nil {
		return false, r.present(ctx, "updatePassword", err)
	}

	if err := r.userSvc.UpdatePassword(ctx, auth.UsernameFromContext(ctx), args.Data.Password); err != nil {
		return false, r.present(ctx, "updatePassword", err)
	}
	r.clearAuthCookies(ctx)
	return true, nil
}

func (r *Resolver) UpdateEmail(ctx context.Context, args struct{ Data UpdateEmailInput }) (bool, error) {
	in := args.Data
	in.Email = strings.TrimSpace(in.Email)
	if err := r.check(ctx, in, GuardArgs{}, Authenticated); err != nil {
		return false, r.present(ctx, "updateEmail", err)
	}

	ok, err := r.userSvc.UpdateEmail(ctx, auth.UsernameFromContext(ctx), in.Email)
	if err != nil {
		return false, r.present(ctx, "updateEmail", err)
	}
	if ok {
		r.clearAuthCookies(ctx)
	}
	return ok, nil
}

func (r *Resolver) UpdateUsername(ctx context.Context, args struct{ Data UpdateUsernameInput }) (bool, error) {
	if err := r.check(ctx, args.Data, GuardArgs{}, Authenticated); err != nil {
		return false, r.present(ctx, "updateUsername", err)
	}

	ok, err := r.userSvc.UpdateUsername(ctx, auth.UsernameFromContext(ctx), args.Data.Username)
	if err != nil {
		return false, r.present(ctx, "updateUsername", err)
	}
	if ok {
		r.clearAuthCookies(ctx)
	}
	return ok, nil
}

func (r *Resolver) UpdateMe(ctx context.Context, args struct{ Data UpdateMeInput }) (*userResolver, error) {
	if err := r.check(ctx, args.Data, GuardArgs{}, Authenticated); err != nil {
		return nil, r.present(ctx, "updateMe", err)
	}

	u, err := r.userSvc.UpdateMe(ctx, auth.UsernameFromContext(ctx), args.Data.Firstname, args.Data.Lastname)
	if err != nil {
		return nil, r.present(ctx, "updateMe", err)
	}
	return &userResolver{r: r, u: u}, nil
}

func (r *Resolver) DeleteMyAccount(ctx context.Context, args struct{ Data DeleteMyAccountInput }) (*userResolver, error) {
	if err := r.check(ctx, args.Data, GuardArgs{}, Authenticated); err != nil {
		return nil, r.present(ctx, "deleteMyAccount", err)
	}

	u, err := r.userSvc.DeleteAccount(ctx, auth.UsernameFromContext(ctx), args.Data.Password)
	if err != nil {
		return nil, r.present(ctx, "deleteMyAccount", err)
	}
	r.clearAuthCookies(ctx)

	// 用户已删除，habits 字段只能返回空列表
	return &userResolver{r: r, u: u}, nil
}
