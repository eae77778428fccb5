package v1_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogicum/config"
	"blogicum/internal/auth"
	v1 "blogicum/internal/handlers/http/v1"
	"blogicum/internal/repository"
	"blogicum/internal/repository/memory"
	"blogicum/internal/service"
)

type testServer struct {
	router *gin.Engine
	repo   *memory.Repository
	svc    *service.Service
	tokens *auth.TokenManager

	category repository.Category
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.New()
	svc := service.New(repo, nil, 10)
	tokens := auth.NewTokenManager(config.Auth{SigningKey: "test-key", TokenTTL: time.Hour})

	router, err := v1.New(svc, tokens, config.App{
		PageSize:     10,
		TemplatesDir: "../../../../web/templates",
	})
	require.NoError(t, err)

	return &testServer{
		router:   router,
		repo:     repo,
		svc:      svc,
		tokens:   tokens,
		category: repo.SeedCategory(repository.Category{Title: "Travel", Slug: "travel", IsPublished: true}),
	}
}

func (ts *testServer) register(t *testing.T, username string) *repository.User {
	t.Helper()
	user, err := ts.svc.Register(context.Background(), service.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "long enough password",
	})
	require.NoError(t, err)
	return user
}

func (ts *testServer) sessionCookie(t *testing.T, user *repository.User) *http.Cookie {
	t.Helper()
	token, err := ts.tokens.Issue(user.ID, user.Username)
	require.NoError(t, err)
	return &http.Cookie{Name: "session_token", Value: token}
}

func (ts *testServer) addPost(t *testing.T, author *repository.User, title string, published bool) *repository.Post {
	t.Helper()
	post, err := ts.svc.CreatePost(context.Background(), author.ID, service.PostInput{
		Title:       title,
		Text:        "some text",
		PubDate:     time.Now().Add(-time.Hour),
		IsPublished: published,
		CategoryID:  &ts.category.ID,
	})
	require.NoError(t, err)
	return post
}

func (ts *testServer) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func TestIndexShowsOnlyPublicPosts(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	ts.addPost(t, author, "Public post", true)
	ts.addPost(t, author, "Hidden draft", false)

	rec := ts.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Public post")
	assert.NotContains(t, rec.Body.String(), "Hidden draft")
}

func TestPostDetailAuthorBypass(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	draft := ts.addPost(t, author, "Hidden draft", false)
	target := "/posts/" + strconv.Itoa(draft.ID)

	rec := ts.do(http.MethodGet, target, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, target, nil, ts.sessionCookie(t, author))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hidden draft")
}

func TestUnknownPostIs404(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/posts/12345", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/posts/not-a-number", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireAuthRedirectsToLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/posts/create", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestNonAuthorEditRedirectsToDetail(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	stranger := ts.register(t, "bob")
	post := ts.addPost(t, author, "Original title", true)
	target := "/posts/" + strconv.Itoa(post.ID) + "/edit"

	form := url.Values{
		"title":        {"Hijacked"},
		"text":         {"x"},
		"pub_date":     {time.Now().Add(-time.Hour).Format("2006-01-02T15:04")},
		"is_published": {"true"},
	}
	rec := ts.do(http.MethodPost, target, form, ts.sessionCookie(t, stranger))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/posts/"+strconv.Itoa(post.ID), rec.Header().Get("Location"))

	got, err := ts.repo.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original title", got.Title)
}

func TestNonAuthorDeleteRedirectsToDetail(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	stranger := ts.register(t, "bob")
	post := ts.addPost(t, author, "Keep me", true)
	target := "/posts/" + strconv.Itoa(post.ID) + "/delete"

	rec := ts.do(http.MethodPost, target, nil, ts.sessionCookie(t, stranger))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/posts/"+strconv.Itoa(post.ID), rec.Header().Get("Location"))

	_, err := ts.repo.GetPost(context.Background(), post.ID)
	assert.NoError(t, err)
}

func TestPostCreate(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")

	form := url.Values{
		"title":        {"Fresh post"},
		"text":         {"hello"},
		"pub_date":     {time.Now().Add(-time.Minute).Format("2006-01-02T15:04")},
		"category":     {strconv.Itoa(ts.category.ID)},
		"location":     {"Lisbon"},
		"is_published": {"true"},
	}
	rec := ts.do(http.MethodPost, "/posts/create", form, ts.sessionCookie(t, author))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile/alice", rec.Header().Get("Location"))

	posts, err := ts.repo.GetPublishedPosts(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Fresh post", posts[0].Title)
	assert.Equal(t, author.ID, posts[0].AuthorID)
	require.NotNil(t, posts[0].Location)
	assert.Equal(t, "Lisbon", *posts[0].Location)
}

func TestCommentCreateStampsAuthor(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	commenter := ts.register(t, "bob")
	post := ts.addPost(t, author, "Public post", true)
	target := "/posts/" + strconv.Itoa(post.ID) + "/comment"

	rec := ts.do(http.MethodPost, target, url.Values{"text": {"great read"}}, ts.sessionCookie(t, commenter))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/posts/"+strconv.Itoa(post.ID), rec.Header().Get("Location"))

	comments, err := ts.repo.GetComments(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, commenter.ID, comments[0].AuthorID)
	assert.Equal(t, post.ID, comments[0].PostID)
}

func TestCommentCreateRequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	post := ts.addPost(t, author, "Public post", true)
	target := "/posts/" + strconv.Itoa(post.ID) + "/comment"

	rec := ts.do(http.MethodPost, target, url.Values{"text": {"anon"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestCategoryPage(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	ts.addPost(t, author, "Travel story", true)
	ts.repo.SeedCategory(repository.Category{Title: "Secret", Slug: "secret", IsPublished: false})

	rec := ts.do(http.MethodGet, "/category/travel", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Travel story")

	rec = ts.do(http.MethodGet, "/category/secret", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileShowsDraftsToOwnerOnly(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	ts.addPost(t, author, "Public post", true)
	ts.addPost(t, author, "Hidden draft", false)

	rec := ts.do(http.MethodGet, "/profile/alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Hidden draft")

	rec = ts.do(http.MethodGet, "/profile/alice", nil, ts.sessionCookie(t, author))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hidden draft")

	rec = ts.do(http.MethodGet, "/profile/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegistrationFlow(t *testing.T) {
	ts := newTestServer(t)

	form := url.Values{
		"username": {"carol"},
		"email":    {"carol@example.com"},
		"password": {"long enough password"},
	}
	rec := ts.do(http.MethodPost, "/auth/registration", form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session_token", cookies[0].Name)

	// the issued cookie opens auth-only pages
	rec = ts.do(http.MethodGet, "/posts/create", nil, cookies[0])
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rec := ts.do(http.MethodPost, "/auth/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid username or password")
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogoutClearsSession(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "alice")

	rec := ts.do(http.MethodPost, "/auth/logout", nil, ts.sessionCookie(t, user))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func TestProfileEdit(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "alice")

	form := url.Values{
		"username":   {"alice"},
		"email":      {"new@example.com"},
		"first_name": {"Alice"},
	}
	rec := ts.do(http.MethodPost, "/edit_profile", form, ts.sessionCookie(t, user))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile/alice", rec.Header().Get("Location"))

	got, err := ts.repo.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/v1/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGraphQLPostsQuery(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	ts.addPost(t, author, "Public post", true)
	ts.addPost(t, author, "Hidden draft", false)

	body := strings.NewReader(`{"query": "{ posts { id title author_username } }"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/graphql", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Public post")
	assert.Contains(t, rec.Body.String(), "alice")
	assert.NotContains(t, rec.Body.String(), "Hidden draft")
}

func TestGraphQLCommentsQueryPagination(t *testing.T) {
	ts := newTestServer(t)
	author := ts.register(t, "alice")
	post := ts.addPost(t, author, "Public post", true)
	for _, text := range []string{"first comment", "second comment", "third comment"} {
		_, err := ts.svc.AddComment(context.Background(), post.ID, author.ID, text)
		require.NoError(t, err)
	}

	query := fmt.Sprintf(`{"query": "{ comments(post_id: %d, limit: 1, offset: 1) { text } }"}`, post.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/graphql", strings.NewReader(query))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "second comment")
	assert.NotContains(t, rec.Body.String(), "first comment")
	assert.NotContains(t, rec.Body.String(), "third comment")
}
