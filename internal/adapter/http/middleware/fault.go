package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/pkg/apperror"
	"mockpay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// DefaultFaultPrefixes are the provider paths a pending fault applies to.
var DefaultFaultPrefixes = []string{
	"/transaction",
	"/payments",
	"/transactions",
	"/transfer",
	"/transfers",
	"/mock/complete",
	"/banks",
}

// controlPrefix marks control-plane paths, which are never faulted.
const controlPrefix = "/__"

// FaultGateConfig configures FaultGate.
type FaultGateConfig struct {
	Prefixes     []string
	TimeoutDelay time.Duration
	DropDelay    time.Duration
	Style        response.Style
}

// FaultGate consumes the one-shot fault for every request whose path matches
// a gated prefix and simulates it.
func FaultGate(faults ports.OutcomeController, cfg FaultGateConfig, log zerolog.Logger) gin.HandlerFunc {
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = DefaultFaultPrefixes
	}

	return func(c *gin.Context) {
		if !gated(c.Request.URL.Path, cfg.Prefixes) {
			c.Next()
			return
		}

		fault := faults.TakeNextFault(c.Request.Context())
		if fault == domain.FaultNone {
			c.Next()
			return
		}

		log.Warn().
			Str("fault", string(fault)).
			Str("path", c.Request.URL.Path).
			Msgf("Simulating %s error", fault)

		switch fault {
		case domain.FaultServerError:
			response.ProviderError(c, cfg.Style, apperror.ErrSimulatedServerError())
			c.Abort()

		case domain.FaultTimeout:
			if !wait(c, cfg.TimeoutDelay) {
				c.Abort()
				return
			}
			if !c.Writer.Written() {
				response.ProviderError(c, cfg.Style, apperror.ErrSimulatedTimeout())
			}
			c.Abort()

		case domain.FaultNetworkDrop:
			if !wait(c, cfg.DropDelay) {
				c.Abort()
				return
			}
			c.Abort()
			sever(c)

		default:
			c.Next()
		}
	}
}

func gated(path string, prefixes []string) bool {
	if strings.HasPrefix(path, controlPrefix) {
		return false
	}
	return lo.SomeBy(prefixes, func(p string) bool {
		return strings.HasPrefix(path, p)
	})
}

// wait sleeps for d and reports false if the client went away first.
func wait(c *gin.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.Request.Context().Done():
		return false
	}
}

// sever closes the client connection without writing a response.
func sever(c *gin.Context) {
	conn, _, err := c.Writer.Hijack()
	if err != nil {
		panic(http.ErrAbortHandler)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetLinger(0)
	}
	_ = conn.Close()
}
