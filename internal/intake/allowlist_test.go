package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAllowlist_EmptyAcceptsEverything(t *testing.T) {
	list := NewAllowlist(nil, zap.NewNop())
	assert.True(t, list.IsAllowed("anyone@anywhere.example"))
	assert.True(t, list.IsAllowed("not-even-an-address"))
}

func TestAllowlist_MatchesDomainCaseInsensitively(t *testing.T) {
	list := NewAllowlist([]string{"Example.Com", " acme.example "}, zap.NewNop())

	assert.True(t, list.IsAllowed("jane@example.com"))
	assert.True(t, list.IsAllowed("jane@EXAMPLE.COM"))
	assert.True(t, list.IsAllowed("bob@acme.example"))
	assert.False(t, list.IsAllowed("jane@other.example"))
}

func TestAllowlist_RejectsMalformedSenders(t *testing.T) {
	list := NewAllowlist([]string{"example.com"}, zap.NewNop())

	assert.False(t, list.IsAllowed("no-at-sign"))
	assert.False(t, list.IsAllowed("two@ats@example.com"))
	assert.False(t, list.IsAllowed(""))
}
