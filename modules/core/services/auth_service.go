package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/session"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/configuration"
)

const sessionTTL = 30 * 24 * time.Hour

type AuthService struct {
	app            application.Application
	oAuthConfig    *oauth2.Config
	usersService   *UserService
	sessionService *SessionService
}

func NewAuthService(app application.Application) *AuthService {
	conf := configuration.Use()
	return &AuthService{
		app: app,
		oAuthConfig: &oauth2.Config{
			RedirectURL:  conf.Google.RedirectURL,
			ClientID:     conf.Google.ClientID,
			ClientSecret: conf.Google.ClientSecret,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		usersService:   app.Service(UserService{}).(*UserService),
		sessionService: app.Service(SessionService{}).(*SessionService),
	}
}

// Authorize resolves a session token into its session and user, touching the
// user's last action on the way.
func (s *AuthService) Authorize(ctx context.Context, token string) (user.User, *session.Session, error) {
	sess, err := s.sessionService.GetByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.usersService.repo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.usersService.UpdateLastAction(ctx, u.ID()); err != nil {
		return nil, nil, err
	}
	return u, sess, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessionService.Delete(ctx, token)
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (user.User, *session.Session, error) {
	logger := configuration.Use().Logger()

	u, err := s.usersService.GetByEmail(ctx, email)
	if err != nil {
		logger.WithError(err).WithField("email", email).Debug("authentication failed: user lookup")
		return nil, nil, composables.ErrInvalidPassword
	}
	if !u.CheckPassword(password) {
		logger.WithField("email", email).Debug("authentication failed: password mismatch")
		return nil, nil, composables.ErrInvalidPassword
	}

	sess, err := s.authenticate(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, sess, nil
}

func (s *AuthService) CookieAuthenticate(ctx context.Context, email, password string) (*http.Cookie, error) {
	_, sess, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.sessionCookie(sess), nil
}

func (s *AuthService) AuthenticateGoogle(ctx context.Context, code string) (user.User, *session.Session, error) {
	token, err := s.oAuthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	client := s.oAuthConfig.Client(ctx, token)
	svc, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, nil, err
	}
	p, err := svc.People.Get("people/me").PersonFields("emailAddresses,names").Do()
	if err != nil {
		return nil, nil, err
	}
	u, err := s.usersService.GetByEmail(ctx, p.EmailAddresses[0].Value)
	if err != nil {
		return nil, nil, err
	}
	sess, err := s.authenticate(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, sess, nil
}

func (s *AuthService) CookieGoogleAuthenticate(ctx context.Context, code string) (*http.Cookie, error) {
	_, sess, err := s.AuthenticateGoogle(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.sessionCookie(sess), nil
}

// GoogleAuthenticate starts the OAuth flow and returns the consent URL. The
// state nonce rides in a short-lived cookie.
func (s *AuthService) GoogleAuthenticate(w http.ResponseWriter) (string, error) {
	cookie, err := generateStateOauthCookie()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, cookie)
	return s.oAuthConfig.AuthCodeURL(cookie.Value, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// CreateSessionFor opens a session without a password check. Invitation
// acceptance uses it right after registering the invited account.
func (s *AuthService) CreateSessionFor(ctx context.Context, u user.User) (*session.Session, error) {
	return s.authenticate(ctx, u)
}

func (s *AuthService) SessionCookie(sess *session.Session) *http.Cookie {
	return s.sessionCookie(sess)
}

func (s *AuthService) authenticate(ctx context.Context, u user.User) (*session.Session, error) {
	logger := configuration.Use().Logger()

	ip, ok := composables.UseIP(ctx)
	if !ok {
		ip = "0.0.0.0"
	}
	userAgent, ok := composables.UseUserAgent(ctx)
	if !ok {
		userAgent = "Unknown"
	}

	token, err := newSessionToken()
	if err != nil {
		logger.WithError(err).Error("failed to generate session token")
		return nil, err
	}

	sess := &session.CreateDTO{
		Token:     token,
		UserID:    u.ID(),
		IP:        ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(sessionTTL),
	}

	if err := s.usersService.UpdateLastLogin(ctx, u.ID()); err != nil {
		return nil, err
	}
	if err := s.usersService.UpdateLastAction(ctx, u.ID()); err != nil {
		return nil, err
	}
	if err := s.sessionService.Create(ctx, sess); err != nil {
		logger.WithError(err).Error("failed to create session")
		return nil, err
	}

	return sess.ToEntity(), nil
}

func (s *AuthService) sessionCookie(sess *session.Session) *http.Cookie {
	conf := configuration.Use()
	domain := ""
	if conf.GoAppEnvironment == configuration.Production {
		domain = conf.Domain
	}
	return &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    sess.Token,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   conf.GoAppEnvironment == configuration.Production,
		Domain:   domain,
		Path:     "/",
	}
}

func newSessionToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func generateStateOauthCookie() (*http.Cookie, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	state := base64.URLEncoding.EncodeToString(b)
	conf := configuration.Use()
	domain := ""
	if conf.GoAppEnvironment == configuration.Production {
		domain = conf.Domain
	}
	return &http.Cookie{
		Name:     conf.OauthStateCookieKey,
		Value:    state,
		Expires:  time.Now().Add(time.Minute * 5),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   conf.GoAppEnvironment == configuration.Production,
		Domain:   domain,
	}, nil
}
