package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistorySave_RequiresExplicitPeriod(t *testing.T) {
	// The snapshot period must be stated by the user; a current-date
	// default would silently save under the wrong month.
	for _, name := range []string{"year", "month"} {
		flag := historySaveCmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "0", flag.DefValue, name)
		assert.Contains(t, flag.Annotations[cobra.BashCompOneRequiredFlag], "true", name)
	}
}
