package bot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veles/schedulebot/internal/browser"
	"github.com/veles/schedulebot/internal/portal"
)

func TestUserMessage_MapsFailureTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("scrape: %w", portal.ErrStudentNotFound), msgNotFound},
		{fmt.Errorf("scrape: %w", portal.ErrAuthTimeout), msgPortalTimeout},
		{fmt.Errorf("scrape: %w", portal.ErrRenderTimeout), msgPortalTimeout},
		{fmt.Errorf("scrape: %w", portal.ErrNavigationTimeout), msgPortalTimeout},
		{fmt.Errorf("scrape: %w", browser.ErrSessionCreation), msgPortalTimeout},
		{errors.New("something else entirely"), msgGenericError},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, userMessage(c.err), "%v", c.err)
	}
}
