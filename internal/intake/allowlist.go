package intake

import (
	"strings"

	"go.uber.org/zap"
)

// Allowlist restricts which sender domains the intake accepts. An empty
// list accepts everything.
type Allowlist struct {
	domains []string
	logger  *zap.Logger
}

// NewAllowlist creates a new sender domain allowlist
func NewAllowlist(domains []string, logger *zap.Logger) *Allowlist {
	normalized := make([]string, len(domains))
	for i, domain := range domains {
		normalized[i] = strings.ToLower(strings.TrimSpace(domain))
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized intake allowlist", zap.Strings("domains", normalized))
	}

	return &Allowlist{
		domains: normalized,
		logger:  logger,
	}
}

// IsAllowed checks whether the sender's domain may submit documents
func (a *Allowlist) IsAllowed(from string) bool {
	if len(a.domains) == 0 {
		return true
	}

	parts := strings.Split(from, "@")
	if len(parts) != 2 {
		return false
	}
	domain := strings.ToLower(parts[1])

	for _, allowed := range a.domains {
		if allowed == domain {
			return true
		}
	}
	return false
}
