package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// AuthTimeout is how long to wait for the user to complete auth
const AuthTimeout = 5 * time.Minute

// Flow runs the authorization code flow with a local callback server.
type Flow struct {
	Config  *oauth2.Config
	Addr    string        // listen address, default 127.0.0.1:CallbackPort
	Timeout time.Duration // default AuthTimeout
	Out     io.Writer     // where the authorization URL is printed
	Logger  *zap.Logger
}

// Run prints the authorization URL, waits for the callback and exchanges
// the code for a token.
func (f *Flow) Run(ctx context.Context) (*Result, error) {
	addr := f.Addr
	if addr == "" {
		addr = fmt.Sprintf("127.0.0.1:%d", CallbackPort)
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = AuthTimeout
	}
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Generate state for CSRF protection
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	codes := make(chan string, 1)
	errs := make(chan error, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}
	server := &http.Server{Handler: callbackHandler(state, codes, errs), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			select {
			case errs <- fmt.Errorf("server error: %w", err):
			default:
			}
		}
	}()
	defer shutdownServer(server)
	logger.Debug("callback server listening", zap.String("addr", listener.Addr().String()))

	authURL := f.Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	if f.Out != nil {
		fmt.Fprintf(f.Out, "\nTo authenticate with Strava, open this URL in your browser:\n\n  %s\n\nWaiting for authentication...\n", authURL)
	}

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return nil, err
	case <-time.After(timeout):
		return nil, fmt.Errorf("authentication timeout after %v", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := f.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}
	result := &Result{Token: token, AthleteID: ExtractAthleteID(token)}
	logger.Info("strava authorization complete", zap.Int64("athlete_id", result.AthleteID))
	return result, nil
}

// callbackHandler accepts exactly one authorization callback. Results are
// sent without blocking; later callbacks are dropped.
func callbackHandler(state string, codes chan<- string, errs chan<- error) http.Handler {
	fail := func(w http.ResponseWriter, err error, msg string) {
		select {
		case errs <- err:
		default:
		}
		http.Error(w, msg, http.StatusBadRequest)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			fail(w, errors.New("state mismatch - possible CSRF attack"), "State mismatch")
			return
		}
		if errMsg := q.Get("error"); errMsg != "" {
			fail(w, fmt.Errorf("auth error: %s", errMsg), "Authentication failed")
			return
		}
		code := q.Get("code")
		if code == "" {
			fail(w, errors.New("no code in callback"), "No authorization code")
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, successPage)
		select {
		case codes <- code:
		default:
		}
	})
	return mux
}

const successPage = `<!DOCTYPE html>
<html>
<head><title>Authentication Successful</title></head>
<body style="font-family: system-ui; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0;">
<div style="text-align: center;">
<h1 style="color: #10B981;">Connected</h1>
<p>Your coach can now read your activities. Return to the terminal.</p>
</div>
</body>
</html>`

// generateState creates a random state string for CSRF protection
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// shutdownServer gracefully shuts down the HTTP server
func shutdownServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
