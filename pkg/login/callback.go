package login

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"
)

// DefaultCallbackAddress must match the callback URL registered for the OAuth application.
const DefaultCallbackAddress = "127.0.0.1:42549"

const callbackPath = "/callback"

// CallbackListener serves the OAuth redirect on a loopback address. It binds
// when created and serves a single Listen call.
type CallbackListener struct {
	listener net.Listener
}

func NewCallbackListener(addr string) (*CallbackListener, error) {
	if addr == "" {
		addr = DefaultCallbackAddress
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}
	return &CallbackListener{listener: listener}, nil
}

func (l *CallbackListener) RedirectURL() string {
	return fmt.Sprintf("http://%s%s", l.listener.Addr().String(), callbackPath)
}

func (l *CallbackListener) Close() error {
	return l.listener.Close()
}

// Listen serves redirects until one arrives for state or ctx is done.
// Redirects carrying another state get a 400 and are ignored. The listener is
// closed on return.
func (l *CallbackListener) Listen(ctx context.Context, state string) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	report := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != callbackPath {
				http.NotFound(w, r)
				return
			}
			query := r.URL.Query()
			// A redirect for another flow is answered but not awaited.
			if query.Get("state") != state {
				http.Error(w, "invalid state", http.StatusBadRequest)
				return
			}
			if denied := query.Get("error"); denied != "" {
				report(fmt.Errorf("authorization denied: %s %s", denied, query.Get("error_description")))
				http.Error(w, "authorization denied", http.StatusForbidden)
				return
			}
			code := query.Get("code")
			if code == "" {
				report(errors.New("missing code in callback"))
				http.Error(w, "missing code", http.StatusBadRequest)
				return
			}
			_, _ = fmt.Fprintln(w, "Authentication complete. You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
	}

	go func() {
		if err := server.Serve(l.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			report(err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errCh:
		return "", err
	case code := <-codeCh:
		return code, nil
	}
}

// OpenBrowser opens url with the platform's default handler.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
