package graph

import (
	"context"
	_ "embed"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"habittracker/internal/auth"
	"habittracker/internal/service"
	"habittracker/internal/validation"
	"habittracker/pkg/logger"
)

//go:embed schema.graphql
var schemaSDL string

// Services groups what the resolvers delegate to.
type Services struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Habits  *service.HabitService
	Entries *service.EntryService
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	authSvc  *service.AuthService
	userSvc  *service.UserService
	habitSvc *service.HabitService
	entrySvc *service.EntryService

	validator *validation.Validator
	cookies   auth.Cookies
	logger    *zap.Logger

	habitOwner Guard
}

func NewResolver(svc Services, cookies auth.Cookies, logger *zap.Logger) *Resolver {
	v := validation.New()
	registerRules(v)

	return &Resolver{
		authSvc:    svc.Auth,
		userSvc:    svc.Users,
		habitSvc:   svc.Habits,
		entrySvc:   svc.Entries,
		validator:  v,
		cookies:    cookies,
		logger:     logger,
		habitOwner: HabitOwner(svc.Habits),
	}
}

// NewSchema parses the embedded schema against r.
func NewSchema(r *Resolver, logger *zap.Logger) (*graphql.Schema, error) {
	schema, err := graphql.ParseSchema(schemaSDL, r,
		graphql.Logger(&panicLogger{logger: logger}),
		graphql.MaxDepth(12),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphql schema: %w", err)
	}
	return schema, nil
}

// check 先校验输入再跑 guard，input 为 nil 时跳过校验
func (r *Resolver) check(ctx context.Context, input interface{}, args GuardArgs, guards ...Guard) error {
	if input != nil {
		if err := r.validator.Struct(input); err != nil {
			return err
		}
	}
	return runGuards(ctx, args, guards...)
}

func (r *Resolver) setAuthCookies(ctx context.Context, pair auth.TokenPair) {
	if w, ok := auth.ResponseWriterFromContext(ctx); ok {
		r.cookies.SetAuthCookies(w, pair)
	}
}

func (r *Resolver) clearAuthCookies(ctx context.Context) {
	if w, ok := auth.ResponseWriterFromContext(ctx); ok {
		r.cookies.ClearAuthCookies(w)
	}
}

type panicLogger struct {
	logger *zap.Logger
}

func (l *panicLogger) LogPanic(ctx context.Context, value interface{}) {
	logger.WithTrace(ctx, l.logger).Error("Resolver panic",
		zap.Any("panic", value),
		zap.Stack("stack"),
	)
}
