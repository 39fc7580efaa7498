package social

import (
	"fmt"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-social/middleware/jwtware"
	"github.com/google/uuid"
)

// AccountContextKey is where the protected-route middleware stores the
// resolved *Account for downstream handlers.
const AccountContextKey = "account"

// APIControllerRoutes are the mount points of the JSON API.
type APIControllerRoutes struct {
	Login      string
	Refresh    string
	Register   string
	Verify     string
	Activation string
	Users      string
	Bans       string
	Profiles   string
	Posts      string
	Feed       string
}

type APIController struct {
	Debug      bool
	Logger     Logger
	Repo       RepositoryManager
	Auther     *Auther
	Activation *ActivationTokenSource
	Mailer     Mailer
	Routes     *APIControllerRoutes
	ContextKey string
}

type APIControllerOption func(*APIController) *APIController

func WithControllerLogger(logger Logger) APIControllerOption {
	return func(c *APIController) *APIController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerMailer(mailer Mailer) APIControllerOption {
	return func(c *APIController) *APIController {
		if mailer != nil {
			c.Mailer = mailer
		}
		return c
	}
}

func WithControllerDebug(debug bool) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Debug = debug
		return c
	}
}

func NewAPIController(repo RepositoryManager, auther *Auther, activation *ActivationTokenSource, opts ...APIControllerOption) *APIController {
	c := &APIController{
		Logger:     defLogger{},
		Repo:       repo,
		Auther:     auther,
		Activation: activation,
		Mailer:     NewNoopMailer(),
		ContextKey: "user",
		Routes: &APIControllerRoutes{
			Login:      "/auth",
			Refresh:    "/auth/refresh",
			Register:   "/accounts",
			Verify:     "/verification",
			Activation: "/activation",
			Users:      "/users",
			Bans:       "/bans",
			Profiles:   "/profiles",
			Posts:      "/posts",
			Feed:       "/feed",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in api controller...")
	}

	if c.Auther == nil {
		panic("Missing Auther in api controller...")
	}

	return c
}

// RegisterRoutes mounts every endpoint. Protected routes run the JWT
// middleware plus account resolution; admin routes add the staff gate.
func RegisterRoutes(app fiber.Router, controller *APIController) {
	c := controller

	app.Post(c.Routes.Login, c.LoginPost)
	app.Post(c.Routes.Refresh, c.RefreshPost)
	app.Post(c.Routes.Register, c.RegistrationCreate)
	app.Post(c.Routes.Verify, c.VerificationPost)
	app.Get(c.Routes.Activation, c.ActivationGet)

	protected := []fiber.Handler{c.Protected(), c.WithAccount()}

	app.Get(c.Routes.Users, append(protected, c.UsersList)...)
	app.Get(c.Routes.Feed, append(protected, c.FeedList)...)

	app.Get(c.Routes.Posts, append(protected, c.PostsList)...)
	app.Post(c.Routes.Posts, append(protected, c.PostCreate)...)
	app.Post(c.Routes.Posts+"/:id/like", append(protected, c.PostLike)...)
	app.Delete(c.Routes.Posts+"/:id/like", append(protected, c.PostUnlike)...)

	app.Post(c.Routes.Profiles+"/:login/follow", append(protected, c.FollowCreate)...)
	app.Delete(c.Routes.Profiles+"/:login/follow", append(protected, c.FollowDelete)...)
	app.Get(c.Routes.Profiles+"/:login/followers", append(protected, c.FollowersList)...)
	app.Get(c.Routes.Profiles+"/:login/following", append(protected, c.FollowingList)...)

	admin := append(protected, c.RequireStaff())

	app.Get(c.Routes.Bans, append(admin, c.BansList)...)
	app.Put(c.Routes.Bans+"/:login", append(admin, c.BanCreate)...)
	app.Delete(c.Routes.Bans+"/:login", append(admin, c.BanDelete)...)
}

// accessTokenValidator pins the middleware's validator to the access kind so
// a refresh token can never open a protected route.
type accessTokenValidator struct {
	ts TokenService
}

func (v accessTokenValidator) ValidateAccess(raw string) (jwtware.AuthClaims, error) {
	return v.ts.Validate(raw, TokenKindAccess)
}

// Protected returns the JWT validation middleware for this controller.
func (a *APIController) Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		ContextKey:     a.ContextKey,
		TokenValidator: accessTokenValidator{ts: a.Auther.TokenService()},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return WriteError(c, a.Logger, ErrNotAuthenticated)
		},
	})
}

// WithAccount resolves the validated claims to a live account and enforces
// ban and activation state. A ban recorded after the token was minted ends
// the session right here.
func (a *APIController) WithAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(a.ContextKey).(jwtware.AuthClaims)
		if !ok {
			return WriteError(c, a.Logger, ErrNotAuthenticated)
		}

		account, err := a.Auther.ResolveSubject(c.Context(), claims.UserID())
		if err != nil {
			return WriteError(c, a.Logger, err)
		}

		c.Locals(AccountContextKey, account)
		return c.Next()
	}
}

// RequireStaff gates admin endpoints on the staff flag.
func (a *APIController) RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := AccountFromCtx(c)
		if err != nil {
			return WriteError(c, a.Logger, err)
		}

		if !account.IsAdmin() {
			return WriteError(c, a.Logger, errors.New("staff privilege required", errors.CategoryAuthz).
				WithTextCode(TextCodeForbidden).
				WithCode(errors.CodeForbidden))
		}

		return c.Next()
	}
}

// AccountFromCtx returns the account resolved by WithAccount.
func AccountFromCtx(c *fiber.Ctx) (*Account, error) {
	account, ok := c.Locals(AccountContextKey).(*Account)
	if !ok || account == nil {
		return nil, ErrNotAuthenticated
	}
	return account, nil
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *APIController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return WriteValidationError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return WriteValidationError(c, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	pair, err := a.Auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

// RefreshRequest payload
type RefreshRequest struct {
	Refresh string `form:"refresh" json:"refresh"`
}

func (a *APIController) RefreshPost(c *fiber.Ctx) error {
	payload := new(RefreshRequest)

	// An unparseable body is the same as a missing token: the state machine
	// answer for that is the refresh-required error, not a parse error.
	if err := c.BodyParser(payload); err != nil {
		payload.Refresh = ""
	}

	pair, err := a.Auther.Refresh(c.Context(), payload.Refresh)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

// RegistrationCreatePayload is the registration payload
type RegistrationCreatePayload struct {
	Email    string `form:"email" json:"email"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Bio      string `form:"bio" json:"bio"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Username, validation.Length(1, 150)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Bio, validation.Length(0, 500)),
	)
}

func (a *APIController) RegistrationCreate(c *fiber.Ctx) error {
	payload := new(RegistrationCreatePayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register user parse payload: ", "error", err)
		return WriteValidationError(c, err)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: ", "error", err)
		return WriteValidationError(c, err)
	}

	var res *RegisterUserResponse

	req := RegisterUserMessage{
		Email:    payload.Email,
		Username: payload.Username,
		Password: payload.Password,
		Bio:      payload.Bio,
		OnResponse: func(r *RegisterUserResponse) {
			res = r
		},
	}

	registerUser := NewRegisterUserHandler(a.Repo, a.Mailer, a.Activation).WithLogger(a.Logger)
	if err := registerUser.Execute(c.Context(), req); err != nil {
		a.Logger.Error("register user error: ", "error", err)
		return WriteError(c, a.Logger, err)
	}

	if a.Debug {
		fmt.Println("======= REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(res))
		fmt.Println("=======================")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"account": res.Account,
	})
}

// VerificationPayload carries the one-time code.
type VerificationPayload struct {
	Code string `form:"code" json:"code"`
}

// Validate will validate the payload
func (r VerificationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(VerificationCodeLength, VerificationCodeLength)),
	)
}

// VerificationPost exchanges a one-time code for an active account. A caller
// holding a live session has nothing to verify and is rejected.
func (a *APIController) VerificationPost(c *fiber.Ctx) error {
	if raw, err := jwtware.ExtractRawToken(c, jwtware.GetExtractors("header:"+fiber.HeaderAuthorization)); err == nil {
		if _, err := a.Auther.TokenService().Validate(raw, TokenKindAccess); err == nil {
			return WriteError(c, a.Logger, errors.New("you are already authenticated", errors.CategoryAuthz).
				WithTextCode(TextCodeForbidden).
				WithCode(errors.CodeForbidden))
		}
	}

	payload := new(VerificationPayload)

	if err := c.BodyParser(payload); err != nil {
		return WriteValidationError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return WriteValidationError(c, err)
	}

	activate := NewActivateByCodeHandler(a.Repo).WithLogger(a.Logger)
	if err := activate.Execute(c.Context(), ActivateByCodeMessage{Code: payload.Code}); err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ActivationGet handles the signed-link activation path. A bad link is not an
// error, it is just not a match.
func (a *APIController) ActivationGet(c *fiber.Ctx) error {
	var account *Account

	req := ActivateByLinkMessage{
		EncodedID: c.Query("uidb64"),
		Token:     c.Query("token"),
		OnResponse: func(acc *Account) {
			account = acc
		},
	}

	activate := NewActivateByLinkHandler(a.Repo, a.Activation).WithLogger(a.Logger)
	if err := activate.Execute(c.Context(), req); err != nil {
		return WriteError(c, a.Logger, err)
	}

	if account == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"activated": false})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"activated": true,
		"account":   account,
	})
}

// BanCreatePayload carries the optional ban reason.
type BanCreatePayload struct {
	Reason string `form:"reason" json:"reason"`
}

// Validate will validate the payload
func (r BanCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

func (a *APIController) BanCreate(c *fiber.Ctx) error {
	creator, err := AccountFromCtx(c)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	payload := new(BanCreatePayload)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return WriteValidationError(c, err)
		}
	}

	if err := payload.Validate(); err != nil {
		return WriteValidationError(c, err)
	}

	var ban *Ban

	req := BanUserMessage{
		ReceiverLogin: c.Params("login"),
		Reason:        payload.Reason,
		Creator:       creator,
		OnResponse: func(b *Ban) {
			ban = b
		},
	}

	banUser := NewBanUserHandler(a.Repo).WithLogger(a.Logger)
	if err := banUser.Execute(c.Context(), req); err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ban)
}

func (a *APIController) BanDelete(c *fiber.Ctx) error {
	creator, err := AccountFromCtx(c)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	req := UnbanUserMessage{
		ReceiverLogin: c.Params("login"),
		Creator:       creator,
	}

	unban := NewUnbanUserHandler(a.Repo).WithLogger(a.Logger)
	if err := unban.Execute(c.Context(), req); err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *APIController) BansList(c *fiber.Ctx) error {
	params, err := ParseListParams(queryValues(c))
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	snapshot, err := a.Repo.Bans().Snapshot(c.Context())
	if err != nil {
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to load ban ledger"))
	}

	page, err := Paginate(snapshot, params, banListConfig())
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

func (a *APIController) UsersList(c *fiber.Ctx) error {
	params, err := ParseListParams(queryValues(c))
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	snapshot, err := a.Repo.Users().Snapshot(c.Context())
	if err != nil {
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to load accounts"))
	}

	page, err := Paginate(snapshot, params, accountListConfig())
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

// PostCreatePayload is the post creation payload
type PostCreatePayload struct {
	Title string `form:"title" json:"title"`
	Body  string `form:"body" json:"body"`
}

// Validate will validate the payload
func (r PostCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Body, validation.Length(0, 10000)),
	)
}

func (a *APIController) PostCreate(c *fiber.Ctx) error {
	author, err := AccountFromCtx(c)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	payload := new(PostCreatePayload)
	if err := c.BodyParser(payload); err != nil {
		return WriteValidationError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return WriteValidationError(c, err)
	}

	post := &Post{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Title:    payload.Title,
		Body:     payload.Body,
	}

	record, err := a.Repo.Posts().Create(c.Context(), post)
	if err != nil {
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "could not create post"))
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (a *APIController) PostsList(c *fiber.Ctx) error {
	params, err := ParseListParams(queryValues(c))
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	snapshot, err := a.Repo.Posts().Snapshot(c.Context())
	if err != nil {
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to load posts"))
	}

	page, err := Paginate(snapshot, params, postListConfig())
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

func (a *APIController) PostLike(c *fiber.Ctx) error {
	account, err := AccountFromCtx(c)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return WriteError(c, a.Logger, errors.New("invalid post id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	if _, err := a.Repo.Posts().GetByID(c.Context(), postID.String()); err != nil {
		if errors.IsNotFound(err) {
			return WriteError(c, a.Logger, errors.New("post not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound))
		}
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to look up post"))
	}

	if err := a.Repo.Posts().Like(c.Context(), postID, account.ID); err != nil {
		if IsUniqueViolation(err) {
			return WriteError(c, a.Logger, errors.New("post already liked", errors.CategoryConflict).
				WithCode(errors.CodeConflict))
		}
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "could not like post"))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *APIController) PostUnlike(c *fiber.Ctx) error {
	account, err := AccountFromCtx(c)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return WriteError(c, a.Logger, errors.New("invalid post id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	if err := a.Repo.Posts().Unlike(c.Context(), postID, account.ID); err != nil {
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "could not unlike post"))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// FeedList serves the posts of every account the caller follows, newest
// first by default.
func (a *APIController) FeedList(c *fiber.Ctx) error {
	account, err := AccountFromCtx(c)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	params, err := ParseListParams(queryValues(c))
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	authorIDs, err := a.Repo.Follows().FollowedIDs(c.Context(), account.ID)
	if err != nil {
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to load followed accounts"))
	}

	snapshot, err := a.Repo.Posts().SnapshotByAuthors(c.Context(), authorIDs)
	if err != nil {
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to load feed"))
	}

	page, err := Paginate(snapshot, params, postListConfig())
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

func (a *APIController) FollowCreate(c *fiber.Ctx) error {
	follower, err := AccountFromCtx(c)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	var edge *Follow

	req := FollowUserMessage{
		Follower:    follower,
		TargetLogin: c.Params("login"),
		OnResponse: func(f *Follow) {
			edge = f
		},
	}

	follow := NewFollowUserHandler(a.Repo).WithLogger(a.Logger)
	if err := follow.Execute(c.Context(), req); err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(edge)
}

func (a *APIController) FollowDelete(c *fiber.Ctx) error {
	follower, err := AccountFromCtx(c)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	req := UnfollowUserMessage{
		Follower:    follower,
		TargetLogin: c.Params("login"),
	}

	unfollow := NewUnfollowUserHandler(a.Repo).WithLogger(a.Logger)
	if err := unfollow.Execute(c.Context(), req); err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *APIController) FollowersList(c *fiber.Ctx) error {
	return a.listEdges(c, true)
}

func (a *APIController) FollowingList(c *fiber.Ctx) error {
	return a.listEdges(c, false)
}

func (a *APIController) listEdges(c *fiber.Ctx, followers bool) error {
	params, err := ParseListParams(queryValues(c))
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	target, err := a.Repo.Users().GetByUsername(c.Context(), c.Params("login"))
	if err != nil {
		if errors.IsNotFound(err) {
			return WriteError(c, a.Logger, errors.New("user not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound))
		}
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to look up profile"))
	}

	var snapshot []*Follow
	var cfg ListConfig[*Follow]

	if followers {
		snapshot, err = a.Repo.Follows().FollowersOf(c.Context(), target.ID)
		cfg = followerListConfig()
	} else {
		snapshot, err = a.Repo.Follows().FollowingOf(c.Context(), target.ID)
		cfg = followingListConfig()
	}

	if err != nil {
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryInternal, "failed to load follow edges"))
	}

	page, err := Paginate(snapshot, params, cfg)
	if err != nil {
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(page)
}

// queryValues copies fiber's query args into a url.Values for the listing
// parameter parser.
func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}

func accountListConfig() ListConfig[*Account] {
	return ListConfig[*Account]{
		Match: func(account *Account, query string) bool {
			return ContainsFold(account.Username, query)
		},
		Orderings: map[string]Less[*Account]{
			"username": func(a, b *Account) bool {
				return a.Username < b.Username
			},
			"created_at": func(a, b *Account) bool {
				return timeBefore(a.CreatedAt, b.CreatedAt)
			},
		},
		Key: func(account *Account) string {
			return account.ID.String()
		},
	}
}

func banListConfig() ListConfig[*Ban] {
	return ListConfig[*Ban]{
		Match: func(ban *Ban, query string) bool {
			if ContainsFold(ban.Reason, query) {
				return true
			}
			if ban.Receiver != nil && ContainsFold(ban.Receiver.Username, query) {
				return true
			}
			if ban.Creator != nil && ContainsFold(ban.Creator.Username, query) {
				return true
			}
			return false
		},
		Orderings: map[string]Less[*Ban]{
			"created_at": func(a, b *Ban) bool {
				return timeBefore(a.CreatedAt, b.CreatedAt)
			},
		},
		Key: func(ban *Ban) string {
			return ban.ID.String()
		},
	}
}

func postListConfig() ListConfig[*Post] {
	return ListConfig[*Post]{
		Match: func(post *Post, query string) bool {
			return ContainsFold(post.Title, query) || ContainsFold(post.Body, query)
		},
		Orderings: map[string]Less[*Post]{
			"created_at": func(a, b *Post) bool {
				return timeBefore(a.CreatedAt, b.CreatedAt)
			},
			"like_count": func(a, b *Post) bool {
				return a.LikeCount < b.LikeCount
			},
		},
		Key: func(post *Post) string {
			return post.ID.String()
		},
	}
}

func followerListConfig() ListConfig[*Follow] {
	return ListConfig[*Follow]{
		Match: func(edge *Follow, query string) bool {
			return edge.Follower != nil && ContainsFold(edge.Follower.Username, query)
		},
		Orderings: map[string]Less[*Follow]{
			"created_at": func(a, b *Follow) bool {
				return timeBefore(a.CreatedAt, b.CreatedAt)
			},
		},
		Key: func(edge *Follow) string {
			return edge.ID.String()
		},
	}
}

func followingListConfig() ListConfig[*Follow] {
	return ListConfig[*Follow]{
		Match: func(edge *Follow, query string) bool {
			return edge.Followed != nil && ContainsFold(edge.Followed.Username, query)
		},
		Orderings: map[string]Less[*Follow]{
			"created_at": func(a, b *Follow) bool {
				return timeBefore(a.CreatedAt, b.CreatedAt)
			},
		},
		Key: func(edge *Follow) string {
			return edge.ID.String()
		},
	}
}

func timeBefore(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}
