package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"habittracker/internal/auth"
	"habittracker/internal/mq"
	"habittracker/internal/repository/sqlite"
	"habittracker/internal/service"
)

type testEnv struct {
	schema *graphql.Schema
	codec  *auth.TokenCodec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "graph.db"), logger)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	hasher := auth.NewHasher(bcrypt.MinCost)
	codec := auth.NewTokenCodec("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	creds := auth.NewCredentials(store.Users, logger)
	events := mq.NopPublisher{}

	r := NewResolver(Services{
		Auth:    service.NewAuthService(store.Users, hasher, codec, creds, service.NopLimiter{}, events, logger),
		Users:   service.NewUserService(store.Users, hasher, creds, events, logger),
		Habits:  service.NewHabitService(store.Users, store.Habits, events, logger),
		Entries: service.NewEntryService(store.Entries, events, logger),
	}, auth.Cookies{Path: "/", AccessTTL: codec.AccessTTL(), RefreshTTL: codec.RefreshTTL()}, logger)

	schema, err := NewSchema(r, logger)
	require.NoError(t, err)

	return &testEnv{schema: schema, codec: codec}
}

// as returns a request context for username; "" stays anonymous.
func as(username string, w http.ResponseWriter) context.Context {
	ctx := auth.WithResponseWriter(context.Background(), w)
	if username != "" {
		ctx = auth.WithUsername(ctx, username)
	}
	return ctx
}

// exec decodes vars from JSON the way the HTTP handler does.
func (e *testEnv) exec(t *testing.T, ctx context.Context, query, vars string) *graphql.Response {
	t.Helper()
	var variables map[string]interface{}
	if vars != "" {
		require.NoError(t, json.Unmarshal([]byte(vars), &variables))
	}
	return e.schema.Exec(ctx, query, "", variables)
}

func (e *testEnv) mustExec(t *testing.T, ctx context.Context, query, vars string, out interface{}) {
	t.Helper()
	resp := e.exec(t, ctx, query, vars)
	require.Empty(t, resp.Errors)
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
}

func errorMessages(resp *graphql.Response) []string {
	msgs := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

const registerMutation = `
	mutation Register($data: RegisterInput!) {
		register(data: $data) { id username email }
	}
`

func (e *testEnv) register(t *testing.T, username string) int {
	t.Helper()
	var out struct {
		Register struct {
			ID int `json:"id"`
		} `json:"register"`
	}
	e.mustExec(t, context.Background(), registerMutation, `{"data": {
		"email": "`+username+`@example.com",
		"password": "password123",
		"username": "`+username+`",
		"firstname": "Test",
		"lastname": "User"
	}}`, &out)
	return out.Register.ID
}

const addHabitMutation = `
	mutation AddHabit($data: AddHabitInput!) {
		addHabit(data: $data) { id title description startDate }
	}
`

func (e *testEnv) addHabit(t *testing.T, username, title string) int {
	t.Helper()
	var out struct {
		AddHabit struct {
			ID int `json:"id"`
		} `json:"addHabit"`
	}
	e.mustExec(t, as(username, httptest.NewRecorder()), addHabitMutation,
		`{"data": {"title": "`+title+`", "startDate": "2020-08-01T00:00:00Z"}}`, &out)
	return out.AddHabit.ID
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates user", func(t *testing.T) {
		id := env.register(t, "alice")
		assert.Positive(t, id)
	})

	t.Run("duplicate username", func(t *testing.T) {
		resp := env.exec(t, context.Background(), registerMutation, `{"data": {
			"email": "other@example.com",
			"password": "password123",
			"username": "alice",
			"firstname": "Test",
			"lastname": "User"
		}}`)
		assert.Equal(t, []string{"Email or username is already taken"}, errorMessages(resp))
	})

	t.Run("invalid input is aggregated", func(t *testing.T) {
		resp := env.exec(t, context.Background(), registerMutation, `{"data": {
			"email": "not-an-email",
			"password": "short",
			"username": "1abc",
			"firstname": "Test",
			"lastname": "User"
		}}`)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "Argument Validation Error", resp.Errors[0].Message)
		assert.Equal(t, "BAD_USER_INPUT", resp.Errors[0].Extensions["code"])
		assert.NotEmpty(t, resp.Errors[0].Extensions["validationErrors"])
	})
}

const loginMutation = `
	mutation Login($data: LoginInput!) {
		login(data: $data) { user { username } }
	}
`

func TestLoginSetsCookies(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	rec := httptest.NewRecorder()
	var out struct {
		Login struct {
			User struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"login"`
	}
	env.mustExec(t, as("", rec), loginMutation,
		`{"data": {"email": "alice@example.com", "password": "password123"}}`, &out)
	assert.Equal(t, "alice", out.Login.User.Username)

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, auth.AccessCookieName)
	require.Contains(t, cookies, auth.RefreshCookieName)
	assert.True(t, cookies[auth.RefreshCookieName].HttpOnly)
	assert.False(t, cookies[auth.AccessCookieName].HttpOnly)

	claims, err := env.codec.VerifyRefresh(cookies[auth.RefreshCookieName].Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, 0, claims.TokenCount)

	t.Run("wrong password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		resp := env.exec(t, as("", rec), loginMutation,
			`{"data": {"email": "alice@example.com", "password": "wrong-password"}}`)
		assert.Equal(t, []string{"Email or Password is invalid"}, errorMessages(resp))
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := env.exec(t, as("", httptest.NewRecorder()), loginMutation,
			`{"data": {"email": "nobody@example.com", "password": "password123"}}`)
		assert.Equal(t, []string{"Email or Password is invalid"}, errorMessages(resp))
	})
}

func TestEmailIsTrimmedBeforeValidation(t *testing.T) {
	env := newTestEnv(t)

	var reg struct {
		Register struct {
			Email string `json:"email"`
		} `json:"register"`
	}
	env.mustExec(t, context.Background(), registerMutation, `{"data": {
		"email": "  carol@example.com ",
		"password": "password123",
		"username": "carol",
		"firstname": "Test",
		"lastname": "User"
	}}`, &reg)
	assert.Equal(t, "carol@example.com", reg.Register.Email)

	var login struct {
		Login struct {
			User struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"login"`
	}
	env.mustExec(t, as("", httptest.NewRecorder()), loginMutation,
		`{"data": {"email": " carol@example.com  ", "password": "password123"}}`, &login)
	assert.Equal(t, "carol", login.Login.User.Username)

	resp := env.exec(t, as("", httptest.NewRecorder()), loginMutation,
		`{"data": {"email": "   ", "password": "password123"}}`)
	assert.Equal(t, []string{"Argument Validation Error"}, errorMessages(resp))
}

func TestAnonymousMyHabits(t *testing.T) {
	env := newTestEnv(t)

	resp := env.exec(t, as("", httptest.NewRecorder()), `{ myHabits { id title } }`, "")
	assert.Equal(t, []string{"User is not logged in"}, errorMessages(resp))
	assert.JSONEq(t, "null", string(resp.Data))
}

func TestValidationRunsBeforeGuards(t *testing.T) {
	env := newTestEnv(t)

	resp := env.exec(t, as("", httptest.NewRecorder()), addHabitMutation,
		`{"data": {"title": "", "startDate": "2020-08-01T00:00:00Z"}}`)
	assert.Equal(t, []string{"Argument Validation Error"}, errorMessages(resp))
}

func TestMyHabitsOrderedByTitle(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	env.addHabit(t, "alice", "Swim")
	env.addHabit(t, "alice", "Read")

	var out struct {
		MyHabits []struct {
			Title string `json:"title"`
			User  struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"myHabits"`
	}
	env.mustExec(t, as("alice", httptest.NewRecorder()), `{ myHabits { title user { username } } }`, "", &out)
	require.Len(t, out.MyHabits, 2)
	assert.Equal(t, "Read", out.MyHabits[0].Title)
	assert.Equal(t, "Swim", out.MyHabits[1].Title)
	assert.Equal(t, "alice", out.MyHabits[0].User.Username)
}

func TestHabitOwnership(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	env.register(t, "bob")
	id := env.addHabit(t, "alice", "Run")

	query := `query Habit($id: Int!) { habit(id: $id) { id title } }`
	vars := `{"id": ` + jsonInt(id) + `}`

	resp := env.exec(t, as("bob", httptest.NewRecorder()), query, vars)
	assert.Equal(t, []string{"Habit with the ID " + jsonInt(id) + " does not exist"}, errorMessages(resp))

	resp = env.exec(t, as("alice", httptest.NewRecorder()), query, `{"id": 999}`)
	assert.Equal(t, []string{"Habit with the ID 999 does not exist"}, errorMessages(resp))

	var out struct {
		Habit struct {
			Title string `json:"title"`
		} `json:"habit"`
	}
	env.mustExec(t, as("alice", httptest.NewRecorder()), query, vars, &out)
	assert.Equal(t, "Run", out.Habit.Title)
}

const toggleEntryMutation = `
	mutation ToggleEntry($data: ToggleEntryInput!) {
		toggleEntry(data: $data) {
			toggleState
			entry { year month day habit { title } }
		}
	}
`

func TestToggleEntry(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	id := env.addHabit(t, "alice", "Run")
	ctx := as("alice", httptest.NewRecorder())
	vars := `{"data": {"habitId": ` + jsonInt(id) + `, "year": 2020, "month": 8, "day": 20}}`

	type payload struct {
		ToggleEntry struct {
			ToggleState string `json:"toggleState"`
			Entry       struct {
				Year  int `json:"year"`
				Month int `json:"month"`
				Day   int `json:"day"`
				Habit struct {
					Title string `json:"title"`
				} `json:"habit"`
			} `json:"entry"`
		} `json:"toggleEntry"`
	}

	var added payload
	env.mustExec(t, ctx, toggleEntryMutation, vars, &added)
	assert.Equal(t, "ADDED", added.ToggleEntry.ToggleState)
	assert.Equal(t, 2020, added.ToggleEntry.Entry.Year)
	assert.Equal(t, 8, added.ToggleEntry.Entry.Month)
	assert.Equal(t, 20, added.ToggleEntry.Entry.Day)
	assert.Equal(t, "Run", added.ToggleEntry.Entry.Habit.Title)

	var month struct {
		EntriesForMonth []struct {
			Day int `json:"day"`
		} `json:"entriesForMonth"`
	}
	env.mustExec(t, ctx, `query M($data: EntriesForMonthInput!) { entriesForMonth(data: $data) { day } }`,
		`{"data": {"habitId": `+jsonInt(id)+`, "year": 2020, "month": 8}}`, &month)
	require.Len(t, month.EntriesForMonth, 1)
	assert.Equal(t, 20, month.EntriesForMonth[0].Day)

	var removed payload
	env.mustExec(t, ctx, toggleEntryMutation, vars, &removed)
	assert.Equal(t, "REMOVED", removed.ToggleEntry.ToggleState)

	t.Run("invalid month", func(t *testing.T) {
		resp := env.exec(t, ctx, toggleEntryMutation,
			`{"data": {"habitId": `+jsonInt(id)+`, "year": 2020, "month": 13, "day": 1}}`)
		assert.Equal(t, []string{"Argument Validation Error"}, errorMessages(resp))
	})
}

func TestUpdateAndRemoveHabit(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	id := env.addHabit(t, "alice", "Run")
	ctx := as("alice", httptest.NewRecorder())

	var updated struct {
		UpdateHabit struct {
			Title       string  `json:"title"`
			Description *string `json:"description"`
		} `json:"updateHabit"`
	}
	env.mustExec(t, ctx, `mutation U($data: UpdateHabitInput!) { updateHabit(data: $data) { title description } }`,
		`{"data": {"id": `+jsonInt(id)+`, "description": "every morning"}}`, &updated)
	assert.Equal(t, "Run", updated.UpdateHabit.Title)
	require.NotNil(t, updated.UpdateHabit.Description)
	assert.Equal(t, "every morning", *updated.UpdateHabit.Description)

	var removed struct {
		RemoveHabit struct {
			ID int `json:"id"`
		} `json:"removeHabit"`
	}
	removeMutation := `mutation R($id: Int!) { removeHabit(id: $id) { id } }`
	env.mustExec(t, ctx, removeMutation, `{"id": `+jsonInt(id)+`}`, &removed)
	assert.Equal(t, id, removed.RemoveHabit.ID)

	resp := env.exec(t, ctx, removeMutation, `{"id": `+jsonInt(id)+`}`)
	assert.Equal(t, []string{"Habit with the ID " + jsonInt(id) + " does not exist"}, errorMessages(resp))
}

func TestRevokeTokens(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	var out struct {
		RevokeTokens bool `json:"revokeTokens"`
	}
	env.mustExec(t, as("", httptest.NewRecorder()), `mutation { revokeTokens }`, "", &out)
	assert.False(t, out.RevokeTokens)

	env.mustExec(t, as("alice", httptest.NewRecorder()), `mutation { revokeTokens }`, "", &out)
	assert.True(t, out.RevokeTokens)
}

func TestUpdateEmailClearsCookies(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	env.register(t, "bob")

	mutation := `mutation E($data: UpdateEmailInput!) { updateEmail(data: $data) }`
	var out struct {
		UpdateEmail bool `json:"updateEmail"`
	}

	rec := httptest.NewRecorder()
	env.mustExec(t, as("alice", rec), mutation, `{"data": {"email": "bob@example.com"}}`, &out)
	assert.False(t, out.UpdateEmail)
	assert.Empty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	env.mustExec(t, as("alice", rec), mutation, `{"data": {"email": "alice2@example.com"}}`, &out)
	assert.True(t, out.UpdateEmail)
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestDeleteMyAccount(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t, "alice")
	env.addHabit(t, "alice", "Run")

	mutation := `mutation D($data: DeleteMyAccountInput!) { deleteMyAccount(data: $data) { id username } }`

	resp := env.exec(t, as("alice", httptest.NewRecorder()), mutation, `{"data": {"password": "wrong-password"}}`)
	assert.Equal(t, []string{"Password is incorrect"}, errorMessages(resp))

	var out struct {
		DeleteMyAccount struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"deleteMyAccount"`
	}
	env.mustExec(t, as("alice", httptest.NewRecorder()), mutation, `{"data": {"password": "password123"}}`, &out)
	assert.Equal(t, id, out.DeleteMyAccount.ID)
	assert.Equal(t, "alice", out.DeleteMyAccount.Username)

	var users struct {
		Users []struct {
			ID int `json:"id"`
		} `json:"users"`
	}
	env.mustExec(t, context.Background(), `{ users { id } }`, "", &users)
	assert.Empty(t, users.Users)

	var entries struct {
		Entries []struct {
			ID int `json:"id"`
		} `json:"entries"`
	}
	env.mustExec(t, context.Background(), `{ entries { id } }`, "", &entries)
	assert.Empty(t, entries.Entries)
}

func TestMeWithHabits(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	env.addHabit(t, "alice", "Run")

	var out struct {
		Me struct {
			Username string `json:"username"`
			Habits   []struct {
				Title string `json:"title"`
			} `json:"habits"`
		} `json:"me"`
	}
	env.mustExec(t, as("alice", httptest.NewRecorder()), `{ me { username habits { title } } }`, "", &out)
	assert.Equal(t, "alice", out.Me.Username)
	require.Len(t, out.Me.Habits, 1)
	assert.Equal(t, "Run", out.Me.Habits[0].Title)
}

func jsonInt(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}
