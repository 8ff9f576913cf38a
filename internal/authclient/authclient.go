package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

// Routes the login screen can land on.
const (
	RoutePsicologo = "/dashboard-psicologo"
	RoutePaciente  = "/dashboard-paciente"
)

// Session is the provider's authenticated session projection.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         User   `json:"user"`
}

// User is the provider-owned account record.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Client talks to a GoTrue-style authentication provider. Everything about
// accounts and sessions is delegated; this client only relays credentials and
// surfaces provider error messages verbatim.
type Client struct {
	baseURL string
	anonKey string
	httpc   *http.Client
	logger  *zap.Logger
}

// New builds a provider client. anonKey is sent as the provider's public API
// key header when non-empty.
func New(baseURL, anonKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.post(ctx, "/token?grant_type=password", credentials{Email: email, Password: password})
}

// SignUp registers a new account with the provider.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.post(ctx, "/signup", credentials{Email: email, Password: password})
}

func (c *Client) post(ctx context.Context, path string, payload credentials) (*Session, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "no se pudo codificar la petición")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "petición inválida")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, "CONNECTIVITY", http.StatusServiceUnavailable, "no se pudo conectar con el proveedor de autenticación")
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, providerError(resp.StatusCode, raw)
	}

	session := &Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusBadGateway, "respuesta inválida del proveedor")
	}
	return session, nil
}

// providerError pulls the provider's own message out of its error body, in
// any of the key spellings the provider uses, and surfaces it verbatim.
func providerError(status int, raw []byte) error {
	var body struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	message := body.ErrorDescription
	if message == "" {
		message = body.Msg
	}
	if message == "" {
		message = body.Message
	}
	if message == "" {
		message = "error de autenticación"
	}
	return appErrors.New("AUTH_PROVIDER", status, message)
}

// ResolveRoute picks the post-login destination. Role-based routing is a
// known gap upstream; every login currently lands on the psychologist
// dashboard regardless of the user's role claim.
func ResolveRoute(user User) string {
	return RoutePsicologo
}
