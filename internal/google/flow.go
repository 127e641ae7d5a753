package google

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultCallbackAddr is where the local redirect server listens.
const DefaultCallbackAddr = "127.0.0.1:8080"

// FlowOptions configures Authorize.
type FlowOptions struct {
	// CallbackAddr is the listen address of the local redirect server.
	CallbackAddr string
	// Timeout bounds the wait for the browser redirect.
	Timeout time.Duration
	// Out receives the instructions for the user.
	Out io.Writer
	// In is read for a pasted code when the callback server cannot start.
	In io.Reader
}

// Authorize runs the installed-app authorization flow and returns the
// exchanged token. It serves the redirect on a local HTTP server. If that
// server cannot listen, the user is asked to paste the code instead.
func Authorize(ctx context.Context, conf *oauth2.Config, opts FlowOptions) (*oauth2.Token, error) {
	if opts.CallbackAddr == "" {
		opts.CallbackAddr = DefaultCallbackAddr
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Minute
	}

	state := uuid.NewString()
	cfg := *conf

	listener, err := net.Listen("tcp", opts.CallbackAddr)
	if err != nil {
		fmt.Fprintf(opts.Out, "Could not start local callback server on %s: %v\n", opts.CallbackAddr, err)
		return authorizeManually(ctx, &cfg, state, opts)
	}

	cfg.RedirectURL = "http://" + listener.Addr().String()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{
		Handler:           CallbackHandler(state, codeCh, errCh),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server failed: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(opts.Out, "Open the following URL in your browser to authorize Google Calendar access:\n\n%s\n\n", authURL)
	fmt.Fprintf(opts.Out, "Waiting for the redirect on %s ...\n", cfg.RedirectURL)

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-timer.C:
		return nil, errors.New("timed out waiting for authorization")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

func authorizeManually(ctx context.Context, conf *oauth2.Config, state string, opts FlowOptions) (*oauth2.Token, error) {
	if opts.In == nil {
		return nil, errors.New("no input available to read the authorization code")
	}
	if conf.RedirectURL == "" {
		conf.RedirectURL = "http://" + DefaultCallbackAddr
	}

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(opts.Out, "Open the following URL in your browser:\n\n%s\n\n", authURL)
	fmt.Fprint(opts.Out, "After approving, copy the \"code\" parameter from the redirected URL and paste it here: ")

	line, err := bufio.NewReader(opts.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, errors.New("no authorization code entered")
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

// CallbackHandler receives the OAuth redirect. The first valid code is sent
// on codeCh; a provider error or a state mismatch is sent on errCh.
func CallbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if e := q.Get("error"); e != "" {
			http.Error(w, "Authorization failed: "+html.EscapeString(e), http.StatusBadRequest)
			trySend(errCh, fmt.Errorf("authorization denied: %s", e))
			return
		}
		if q.Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			trySend(errCh, errors.New("state mismatch in authorization callback"))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code", http.StatusBadRequest)
			trySend(errCh, errors.New("no authorization code received"))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Authorization Successful</title></head>
<body><h1>Authorization Successful!</h1><p>You can close this window and return to the terminal.</p></body></html>`)

		select {
		case codeCh <- code:
		default:
		}
	})
}

func trySend(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}
