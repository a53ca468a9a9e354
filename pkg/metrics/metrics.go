package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values
const (
	OutcomeSuccess         = "success"
	OutcomeFailure         = "failure"
	OutcomeResendRequested = "resend_requested"
)

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghlogin_login_attempts_total",
		Help: "Total number of login calls by method",
	}, []string{"host", "method"})
	LoginOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghlogin_login_outcomes_total",
		Help: "Login results by method and outcome",
	}, []string{"host", "method", "outcome"})
	EnterpriseFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghlogin_enterprise_fallbacks_total",
		Help: "Password logins that used the password as the token",
	}, []string{"host"})
	AuthorizationRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghlogin_authorization_requests_total",
		Help: "Calls to the create-or-reuse authorization endpoint",
	}, []string{"host"})
	DeadAuthorizationsDeleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghlogin_dead_authorizations_deleted_total",
		Help: "Authorizations returned without a token that were deleted",
	}, []string{"host"})
	TwoFactorChallenges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghlogin_two_factor_challenges_total",
		Help: "Second-factor challenges handed to the challenge handler, by delivery method",
	}, []string{"host", "delivery"})
	TwoFactorOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghlogin_two_factor_outcomes_total",
		Help: "Results of second-factor challenge cycles",
	}, []string{"host", "outcome"})
	TokenVerificationRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghlogin_token_verification_retries_total",
		Help: "Token verification attempts that failed authorization and were retried",
	}, []string{"host"})
)

func init() {
	prometheus.MustRegister(LoginAttempts)
	prometheus.MustRegister(LoginOutcomes)
	prometheus.MustRegister(EnterpriseFallbacks)
	prometheus.MustRegister(AuthorizationRequests)
	prometheus.MustRegister(DeadAuthorizationsDeleted)
	prometheus.MustRegister(TwoFactorChallenges)
	prometheus.MustRegister(TwoFactorOutcomes)
	prometheus.MustRegister(TokenVerificationRetries)
}

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
